package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
)

// TransactionTemplateRepository defines the interface for sales template operations
type TransactionTemplateRepository interface {
	Create(ctx context.Context, tmpl *entity.QuickTransactionTemplate) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickTransactionTemplate, error)
	List(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickTransactionTemplate, error)
	Update(ctx context.Context, tmpl *entity.QuickTransactionTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StaffPaymentTemplateRepository defines the interface for staff payout template operations
type StaffPaymentTemplateRepository interface {
	Create(ctx context.Context, tmpl *entity.QuickStaffPaymentTemplate) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickStaffPaymentTemplate, error)
	List(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickStaffPaymentTemplate, error)
	Update(ctx context.Context, tmpl *entity.QuickStaffPaymentTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
