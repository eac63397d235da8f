package repository

import "context"

// Repositories groups every repository bound to the same database handle.
// Inside Store.Atomic all of them share one database transaction.
type Repositories struct {
	Accounts              AccountRepository
	Clients               ClientRepository
	Staff                 StaffRepository
	Products              ProductRepository
	Transactions          TransactionRepository
	TransactionItems      TransactionItemRepository
	Payments              PaymentRepository
	Ledger                LedgerRepository
	StaffPayments         StaffPaymentRepository
	TransactionTemplates  TransactionTemplateRepository
	StaffPaymentTemplates StaffPaymentTemplateRepository
	Idempotency           IdempotencyRepository
}

// Store is the record store. Atomic runs fn inside one database
// transaction: it commits when fn returns nil and rolls back every write
// when fn returns an error or panics.
type Store interface {
	Repos() *Repositories
	Atomic(ctx context.Context, fn func(r *Repositories) error) error
}
