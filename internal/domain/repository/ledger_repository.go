package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// LedgerRepository defines the interface for ledger entry operations
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByReference(ctx context.Context, refType enum.ReferenceType, refID string) (*entity.LedgerEntry, error)
	Update(ctx context.Context, entry *entity.LedgerEntry) error
	// DeleteByReference removes the entry for a reference key and reports
	// how many rows were removed
	DeleteByReference(ctx context.Context, refType enum.ReferenceType, refID string) (int64, error)
	List(ctx context.Context, accountID uuid.UUID, params *LedgerFilterParams) ([]entity.LedgerEntry, error)
}

// LedgerFilterParams contains filtering parameters for ledger queries.
// StartDate is inclusive and EndDate exclusive.
type LedgerFilterParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	ClientID  *uuid.UUID
	StaffID   *uuid.UUID
	EntryType *enum.EntryType
}

// StaffPaymentRepository defines the interface for staff payment operations
type StaffPaymentRepository interface {
	Create(ctx context.Context, payment *entity.StaffPayment) error
	GetByID(ctx context.Context, accountID uuid.UUID, id uint) (*entity.StaffPayment, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, accountID uuid.UUID, staffID *uuid.UUID, params *pagination.PaginationParams) ([]entity.StaffPayment, int64, error)
}
