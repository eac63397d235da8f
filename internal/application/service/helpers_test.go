package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type testEnv struct {
	db            *gorm.DB
	store         repository.Store
	payments      *PaymentService
	transactions  *TransactionService
	staffPayments *StaffPaymentService
	templates     *TemplateService
	reports       *ReportService

	accountID uuid.UUID
	client    *entity.Client
	staff     *entity.Staff
	product   *entity.Product
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRecompute(t, false)
}

func newTestEnvWithRecompute(t *testing.T, recompute bool) *testEnv {
	t.Helper()

	db, err := database.NewMemoryDB(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	store := infraRepo.NewStore(db)
	ledger := NewLedgerMirror(logger)

	env := &testEnv{
		db:            db,
		store:         store,
		payments:      NewPaymentService(store, ledger, logger, recompute),
		transactions:  NewTransactionService(store, ledger, logger),
		staffPayments: NewStaffPaymentService(store, ledger, logger),
		reports:       NewReportService(store),
	}
	env.payments.now = clock
	env.transactions.now = clock
	env.staffPayments.now = clock
	env.reports.now = clock
	env.templates = NewTemplateService(store, env.transactions, env.staffPayments, logger)

	env.accountID = env.newAccount(t, "owner@example.com")
	env.client = env.newClient(t, env.accountID, "Acme Ltd")
	env.staff = env.newStaff(t, env.accountID, "Jane Doe")
	env.product = env.newProduct(t, env.accountID, "Consulting", 25000, "10")
	return env
}

func (e *testEnv) newAccount(t *testing.T, email string) uuid.UUID {
	t.Helper()
	account := &entity.Account{Name: "Owner", Email: email, Password: "x"}
	require.NoError(t, e.store.Repos().Accounts.Create(context.Background(), account))
	return account.ID
}

func (e *testEnv) newClient(t *testing.T, accountID uuid.UUID, name string) *entity.Client {
	t.Helper()
	client := &entity.Client{AccountID: accountID, Name: name}
	require.NoError(t, e.store.Repos().Clients.Create(context.Background(), client))
	return client
}

func (e *testEnv) newStaff(t *testing.T, accountID uuid.UUID, name string) *entity.Staff {
	t.Helper()
	staff := &entity.Staff{AccountID: accountID, Name: name}
	require.NoError(t, e.store.Repos().Staff.Create(context.Background(), staff))
	return staff
}

func (e *testEnv) newProduct(t *testing.T, accountID uuid.UUID, name string, price int64, taxRate string) *entity.Product {
	t.Helper()
	product := &entity.Product{
		AccountID: accountID,
		Name:      name,
		Price:     price,
		TaxRate:   decimal.RequireFromString(taxRate),
	}
	require.NoError(t, e.store.Repos().Products.Create(context.Background(), product))
	return product
}

// newTransaction creates a single-line, tax-free transaction for total
func (e *testEnv) newTransaction(t *testing.T, total string, status enum.TransactionStatus) *entity.Transaction {
	t.Helper()
	price := decimal.RequireFromString(total)
	txn, err := e.transactions.CreateTransaction(context.Background(), &TransactionInput{
		AccountID: e.accountID,
		ClientID:  e.client.ID,
		Status:    &status,
		Items: []TransactionItemInput{{
			Description: "Services",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   &price,
		}},
	})
	require.NoError(t, err)
	return txn
}

func (e *testEnv) record(t *testing.T, txn *entity.Transaction, amount string) (*PaymentResult, error) {
	t.Helper()
	return e.payments.RecordPayment(context.Background(), &RecordPaymentInput{
		AccountID:     e.accountID,
		TransactionID: txn.ExternalID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "cash",
	})
}

func (e *testEnv) reload(t *testing.T, txn *entity.Transaction) *entity.Transaction {
	t.Helper()
	got, err := e.store.Repos().Transactions.GetByExternalID(context.Background(), e.accountID, txn.ExternalID)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func (e *testEnv) ledgerEntries(t *testing.T) []entity.LedgerEntry {
	t.Helper()
	entries, err := e.store.Repos().Ledger.List(context.Background(), e.accountID, &repository.LedgerFilterParams{})
	require.NoError(t, err)
	return entries
}

func (e *testEnv) mirrorOf(t *testing.T, refType enum.ReferenceType, sourceID uint) *entity.LedgerEntry {
	t.Helper()
	entry, err := e.store.Repos().Ledger.GetByReference(context.Background(), refType, entity.LedgerReferenceKey(refType, sourceID))
	require.NoError(t, err)
	return entry
}

// assertInvariants checks that every payment of txn has exactly one ledger
// entry with the same amount and that payments never exceed the total
func (e *testEnv) assertInvariants(t *testing.T, txn *entity.Transaction) {
	t.Helper()
	ctx := context.Background()

	payments, err := e.store.Repos().Payments.ListByTransactionID(ctx, txn.ID)
	require.NoError(t, err)

	var sum int64
	for _, p := range payments {
		sum += p.Amount
		entry := e.mirrorOf(t, enum.ReferenceTransactionPayment, p.ID)
		require.NotNil(t, entry, "payment %d has no ledger entry", p.ID)
		require.Equal(t, p.Amount, entry.Amount)
		require.Equal(t, enum.EntryTypeIncome, entry.EntryType)
	}
	require.LessOrEqual(t, sum, e.reload(t, txn).TotalAmount)

	var paymentMirrors int
	for _, entry := range e.ledgerEntries(t) {
		if entry.ReferenceType == enum.ReferenceTransactionPayment {
			paymentMirrors++
		}
	}
	var allPayments int64
	require.NoError(t, e.db.Model(&entity.TransactionPayment{}).Count(&allPayments).Error)
	require.Equal(t, int(allPayments), paymentMirrors)
}
