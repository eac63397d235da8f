package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedLedger records income in January 2024 and in February and March 2025,
// plus a staff expense in March 2025
func seedLedger(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	second := env.newClient(t, env.accountID, "Globex")

	dates := []struct {
		clientID uuid.UUID
		date     time.Time
		amount   string
	}{
		{env.client.ID, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), "100.00"},
		{env.client.ID, time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC), "200.00"},
		{second.ID, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), "250.00"},
	}
	for _, d := range dates {
		date := d.date
		paid := enum.TransactionStatusPaid
		_, err := env.transactions.CreateTransaction(ctx, &TransactionInput{
			AccountID:       env.accountID,
			ClientID:        d.clientID,
			TransactionDate: &date,
			Status:          &paid,
			Items:           []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec(d.amount)}},
		})
		require.NoError(t, err)
	}

	expenseDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	_, err := env.staffPayments.RecordStaffPayment(ctx, &RecordStaffPaymentInput{
		AccountID:   env.accountID,
		StaffID:     env.staff.ID,
		Amount:      decimal.RequireFromString("120.00"),
		PaymentDate: &expenseDate,
	})
	require.NoError(t, err)
}

func TestMonthlySummary(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)

	months, err := env.reports.MonthlySummary(context.Background(), env.accountID, 2025)
	require.NoError(t, err)
	require.Len(t, months, 12)

	assert.Equal(t, int64(0), months[0].Income)
	assert.Equal(t, int64(20000), months[1].Income)
	assert.Equal(t, int64(25000), months[2].Income)
	assert.Equal(t, int64(12000), months[2].Expense)
	assert.Equal(t, int64(13000), months[2].Profit())
	assert.Equal(t, 3, months[2].Month)

	raw, err := json.Marshal(months[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2025,"month":3,"income":250,"expense":120,"profit":130}`, string(raw))
}

func TestYearlySummaryAndCurrentMonth(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ctx := context.Background()

	years, err := env.reports.YearlySummary(ctx, env.accountID)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2024, years[0].Year)
	assert.Equal(t, int64(10000), years[0].Income)
	assert.Equal(t, 2025, years[1].Year)
	assert.Equal(t, int64(45000), years[1].Income)
	assert.Equal(t, int64(12000), years[1].Expense)

	current, err := env.reports.CurrentMonth(ctx, env.accountID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Month)
	assert.Equal(t, int64(25000), current.Income)
	assert.Equal(t, int64(12000), current.Expense)

	other := env.newAccount(t, "other@example.com")
	empty, err := env.reports.YearlySummary(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListLedger_Filters(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ctx := context.Background()

	all, err := env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, !all[0].EntryDate.Before(all[1].EntryDate))

	march, err := env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Len(t, march, 2)

	// A month without a year is read in the current year
	feb, err := env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{Month: 2})
	require.NoError(t, err)
	assert.Len(t, feb, 1)

	expense := enum.EntryTypeExpense
	expenses, err := env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{EntryType: &expense})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, env.staff.ID, *expenses[0].StaffID)

	byClient, err := env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{ClientID: &env.client.ID})
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	_, err = env.reports.ListLedger(ctx, env.accountID, &LedgerFilter{Month: 13})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestClientTotals(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ctx := context.Background()

	totals, err := env.reports.ClientTotals(ctx, env.accountID, 0)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Acme Ltd", totals[0].ClientName)
	assert.Equal(t, int64(30000), totals[0].Income)
	assert.Equal(t, 2, totals[0].Transactions)
	assert.Equal(t, "Globex", totals[1].ClientName)

	totals, err = env.reports.ClientTotals(ctx, env.accountID, 2024)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(10000), totals[0].Income)
}

func TestExportLedger(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)

	buf, err := env.reports.ExportLedger(context.Background(), env.accountID, &LedgerFilter{Year: 2025})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"Date", "Type", "Description", "Reference", "Amount"}, rows[0])
	assert.Equal(t, "2025-03-10", rows[1][0])
	assert.Equal(t, "expense", rows[1][1])
	assert.Equal(t, "-120", rows[1][4])

	profit, err := f.GetCellValue(ledgerSheet, "E8")
	require.NoError(t, err)
	assert.Equal(t, "330", profit)
}
