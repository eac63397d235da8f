package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// TransactionRepository defines the interface for transaction data operations.
// Every lookup is scoped to the owning account; a foreign record is reported
// as absent (nil, nil).
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByExternalID(ctx context.Context, accountID, externalID uuid.UUID) (*entity.Transaction, error)
	GetWithDetails(ctx context.Context, accountID, externalID uuid.UUID) (*entity.Transaction, error)
	// GetForUpdate loads the transaction and holds a row lock until the
	// surrounding atomic block ends
	GetForUpdate(ctx context.Context, accountID, externalID uuid.UUID) (*entity.Transaction, error)
	GetByIDForUpdate(ctx context.Context, accountID uuid.UUID, id uint) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	UpdateStatus(ctx context.Context, id uint, status enum.TransactionStatus) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, accountID uuid.UUID, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.TransactionStatus
	ClientID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// TransactionItemRepository defines the interface for line item operations
type TransactionItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.TransactionItem) error
	GetByTransactionID(ctx context.Context, transactionID uint) ([]entity.TransactionItem, error)
	DeleteByTransactionID(ctx context.Context, transactionID uint) error
}

// PaymentRepository defines the interface for transaction payment operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.TransactionPayment) error
	GetByID(ctx context.Context, accountID uuid.UUID, id uint) (*entity.TransactionPayment, error)
	ListByTransactionID(ctx context.Context, transactionID uint) ([]entity.TransactionPayment, error)
	// SumByTransactionID totals the payments of a transaction, leaving out
	// excludeID when it is non-zero
	SumByTransactionID(ctx context.Context, transactionID uint, excludeID uint) (int64, error)
	Update(ctx context.Context, payment *entity.TransactionPayment) error
	Delete(ctx context.Context, id uint) error
	DeleteByTransactionID(ctx context.Context, transactionID uint) error
}
