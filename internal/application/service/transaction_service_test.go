package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func statusPtr(s enum.TransactionStatus) *enum.TransactionStatus {
	return &s
}

func TestCreateTransaction_ComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	productID := env.product.ID

	txn, err := env.transactions.CreateTransaction(context.Background(), &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Items: []TransactionItemInput{
			{ProductID: &productID, Quantity: decimal.NewFromInt(2)},
			{Description: "Travel", Quantity: decimal.RequireFromString("1.5"), UnitPrice: dec("33.33"), TaxRate: dec("16")},
		},
	})
	require.NoError(t, err)

	// 2 x 250.00 at 10% and 1.5 x 33.33 = 49.995 -> 50.00 at 16%
	assert.Equal(t, int64(55000), txn.Subtotal)
	assert.Equal(t, int64(5800), txn.TaxAmount)
	assert.Equal(t, int64(60800), txn.TotalAmount)
	assert.Equal(t, enum.TransactionStatusPending, txn.Status)
	assert.NotEqual(t, uuid.Nil, txn.ExternalID)
	assert.NotEmpty(t, txn.ReferenceNumber)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), txn.TransactionDate.UTC())

	require.Len(t, txn.Items, 2)
	assert.Equal(t, "Consulting", txn.Items[0].Description)
	assert.Equal(t, int64(50000), txn.Items[0].Total)
	assert.Equal(t, int64(5000), txn.Items[1].Total)
	require.NotNil(t, txn.Client)
	assert.Equal(t, "Acme Ltd", txn.Client.Name)

	// Not paid at creation, so nothing is mirrored
	assert.Empty(t, env.ledgerEntries(t))
}

func TestCreateTransaction_Validation(t *testing.T) {
	env := newTestEnv(t)
	other := env.newAccount(t, "other@example.com")
	foreignClient := env.newClient(t, other, "Foreign")
	foreignProduct := env.newProduct(t, other, "Foreign product", 100, "0")

	tests := []struct {
		name  string
		input TransactionInput
		field string
	}{
		{
			name:  "no items",
			input: TransactionInput{ClientID: env.client.ID},
			field: "items",
		},
		{
			name:  "foreign client",
			input: TransactionInput{ClientID: foreignClient.ID, Items: []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("1")}}},
			field: "client_id",
		},
		{
			name:  "foreign product",
			input: TransactionInput{ClientID: env.client.ID, Items: []TransactionItemInput{{ProductID: &foreignProduct.ID, Quantity: decimal.NewFromInt(1)}}},
			field: "items.0.product_id",
		},
		{
			name:  "zero quantity",
			input: TransactionInput{ClientID: env.client.ID, Items: []TransactionItemInput{{Description: "x", Quantity: decimal.Zero, UnitPrice: dec("1")}}},
			field: "items.0.quantity",
		},
		{
			name:  "negative price",
			input: TransactionInput{ClientID: env.client.ID, Items: []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("-1")}}},
			field: "items.0.unit_price",
		},
		{
			name:  "tax above 100",
			input: TransactionInput{ClientID: env.client.ID, Items: []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("1"), TaxRate: dec("101")}}},
			field: "items.0.tax_rate",
		},
		{
			name:  "partial status",
			input: TransactionInput{ClientID: env.client.ID, Status: statusPtr(enum.TransactionStatusPartial), Items: []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("1")}}},
			field: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			input.AccountID = env.accountID
			_, err := env.transactions.CreateTransaction(context.Background(), &input)
			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTransaction_PaidMirrorsIncome(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "120.00", enum.TransactionStatusPaid)

	entries := env.ledgerEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.ReferenceClientTransaction, entries[0].ReferenceType)
	assert.Equal(t, entity.LedgerReferenceKey(enum.ReferenceClientTransaction, txn.ID), entries[0].ReferenceID)
	assert.Equal(t, int64(12000), entries[0].Amount)
	assert.Equal(t, enum.EntryTypeIncome, entries[0].EntryType)
}

func TestUpdateTransaction_ReplacesItemsAndSyncsMirror(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "100.00", enum.TransactionStatusPaid)

	updated, err := env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Items: []TransactionItemInput{
			{Description: "A", Quantity: decimal.NewFromInt(1), UnitPrice: dec("70")},
			{Description: "B", Quantity: decimal.NewFromInt(1), UnitPrice: dec("80")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.TotalAmount)
	assert.Equal(t, enum.TransactionStatusPaid, updated.Status)
	require.Len(t, updated.Items, 2)

	var itemCount int64
	require.NoError(t, env.db.Model(&entity.TransactionItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)

	mirror := env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID)
	require.NotNil(t, mirror)
	assert.Equal(t, int64(15000), mirror.Amount)

	// Leaving paid removes the creation mirror
	_, err = env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Status:    statusPtr(enum.TransactionStatusPending),
		Items:     []TransactionItemInput{{Description: "A", Quantity: decimal.NewFromInt(1), UnitPrice: dec("70")}},
	})
	require.NoError(t, err)
	assert.Nil(t, env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID))

	// Becoming paid with no payments creates it again
	_, err = env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Status:    statusPtr(enum.TransactionStatusPaid),
		Items:     []TransactionItemInput{{Description: "A", Quantity: decimal.NewFromInt(1), UnitPrice: dec("70")}},
	})
	require.NoError(t, err)
	mirror = env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID)
	require.NotNil(t, mirror)
	assert.Equal(t, int64(7000), mirror.Amount)
}

func TestUpdateTransaction_TotalBelowPaidRejected(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "100.00", enum.TransactionStatusPending)
	_, err := env.record(t, txn, "60.00")
	require.NoError(t, err)

	_, err = env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Items:     []TransactionItemInput{{Description: "A", Quantity: decimal.NewFromInt(1), UnitPrice: dec("50")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
	assert.Equal(t, int64(10000), env.reload(t, txn).TotalAmount)

	// Lowering the total to exactly what was paid settles it
	updated, err := env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Items:     []TransactionItemInput{{Description: "A", Quantity: decimal.NewFromInt(1), UnitPrice: dec("60")}},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusPaid, updated.Status)
	assert.Nil(t, env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID))
}

func TestUpdateTransaction_PaidRequiresFullSettlement(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "1000.00", enum.TransactionStatusPending)
	_, err := env.record(t, txn, "400.00")
	require.NoError(t, err)

	items := []TransactionItemInput{{Description: "Services", Quantity: decimal.NewFromInt(1), UnitPrice: dec("1000")}}
	_, err = env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Status:    statusPtr(enum.TransactionStatusPaid),
		Items:     items,
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "status", appErr.Errors[0].Field)

	summary, err := env.payments.GetPaymentSummary(context.Background(), env.accountID, txn.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusPartial, summary.Status)
	assert.Equal(t, 400.0, summary.TotalPaid)
	assert.Equal(t, 600.0, summary.RemainingAmount)
	assert.Nil(t, env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID))
	env.assertInvariants(t, txn)
}

func TestUpdateTransaction_RaisedTotalReopensPaid(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "100.00", enum.TransactionStatusPending)
	result, err := env.record(t, txn, "100.00")
	require.NoError(t, err)
	require.Equal(t, enum.TransactionStatusPaid, result.TransactionStatus)

	updated, err := env.transactions.UpdateTransaction(context.Background(), txn.ExternalID, &TransactionInput{
		AccountID: env.accountID,
		ClientID:  env.client.ID,
		Items:     []TransactionItemInput{{Description: "Services", Quantity: decimal.NewFromInt(1), UnitPrice: dec("150")}},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionStatusPartial, updated.Status)
	assert.Nil(t, env.mirrorOf(t, enum.ReferenceClientTransaction, txn.ID))
	env.assertInvariants(t, txn)
}

func TestDeleteTransaction_CascadesLedger(t *testing.T) {
	env := newTestEnv(t)
	txn := env.newTransaction(t, "300.00", enum.TransactionStatusPending)
	_, err := env.record(t, txn, "100.00")
	require.NoError(t, err)
	_, err = env.record(t, txn, "50.00")
	require.NoError(t, err)
	kept := env.newTransaction(t, "40.00", enum.TransactionStatusPaid)

	other := env.newAccount(t, "other@example.com")
	err = env.transactions.DeleteTransaction(context.Background(), other, txn.ExternalID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	require.NoError(t, env.transactions.DeleteTransaction(context.Background(), env.accountID, txn.ExternalID))

	_, err = env.transactions.GetTransaction(context.Background(), env.accountID, txn.ExternalID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	var payments, items int64
	require.NoError(t, env.db.Model(&entity.TransactionPayment{}).Count(&payments).Error)
	require.NoError(t, env.db.Model(&entity.TransactionItem{}).Where("transaction_id = ?", txn.ID).Count(&items).Error)
	assert.Zero(t, payments)
	assert.Zero(t, items)

	entries := env.ledgerEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerReferenceKey(enum.ReferenceClientTransaction, kept.ID), entries[0].ReferenceID)
}

func TestListTransactions_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	second := env.newClient(t, env.accountID, "Globex")

	for i := 0; i < 3; i++ {
		env.newTransaction(t, "10.00", enum.TransactionStatusPending)
	}
	paid := enum.TransactionStatusPaid
	date := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	_, err := env.transactions.CreateTransaction(ctx, &TransactionInput{
		AccountID:       env.accountID,
		ClientID:        second.ID,
		TransactionDate: &date,
		ReferenceNumber: "INV-SPECIAL-1",
		Status:          &paid,
		Items:           []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("5")}},
	})
	require.NoError(t, err)

	other := env.newAccount(t, "other@example.com")
	otherClient := env.newClient(t, other, "Other")
	_, err = env.transactions.CreateTransaction(ctx, &TransactionInput{
		AccountID: other,
		ClientID:  otherClient.ID,
		Items:     []TransactionItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: dec("5")}},
	})
	require.NoError(t, err)

	all, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Pagination.Total)
	assert.Len(t, all.Items, 2)
	assert.True(t, all.Pagination.HasNext)

	byStatus, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{Status: &paid})
	require.NoError(t, err)
	require.Len(t, byStatus.Items, 1)
	assert.Equal(t, "INV-SPECIAL-1", byStatus.Items[0].ReferenceNumber)

	byClient, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{ClientID: &second.ID})
	require.NoError(t, err)
	assert.Len(t, byClient.Items, 1)

	search, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{Search: "special"})
	require.NoError(t, err)
	assert.Len(t, search.Items, 1)

	// Caller input is bound as a parameter, never spliced into the query
	injection, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{
		Search: "' OR 1=1 --",
		SortBy: "id; DROP TABLE transactions",
	})
	require.NoError(t, err)
	assert.Empty(t, injection.Items)

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	byDate, err := env.transactions.ListTransactions(ctx, env.accountID, &repository.TransactionFilterParams{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, byDate.Items, 3)
}
