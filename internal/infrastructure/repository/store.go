package repository

import (
	"context"

	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type gormStore struct {
	db    *gorm.DB
	repos *domainRepo.Repositories
}

// NewStore creates the record store backed by db
func NewStore(db *gorm.DB) domainRepo.Store {
	return &gormStore{db: db, repos: newRepositories(db)}
}

func newRepositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Accounts:              NewAccountRepository(db),
		Clients:               NewClientRepository(db),
		Staff:                 NewStaffRepository(db),
		Products:              NewProductRepository(db),
		Transactions:          NewTransactionRepository(db),
		TransactionItems:      NewTransactionItemRepository(db),
		Payments:              NewPaymentRepository(db),
		Ledger:                NewLedgerRepository(db),
		StaffPayments:         NewStaffPaymentRepository(db),
		TransactionTemplates:  NewTransactionTemplateRepository(db),
		StaffPaymentTemplates: NewStaffPaymentTemplateRepository(db),
		Idempotency:           NewIdempotencyRepository(db),
	}
}

func (s *gormStore) Repos() *domainRepo.Repositories {
	return s.repos
}

func (s *gormStore) Atomic(ctx context.Context, fn func(r *domainRepo.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}
