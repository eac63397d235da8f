package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
}

// ClientRepository defines lookups for clients owned by an account
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.Client, error)
	GetByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]entity.Client, error)
}

// StaffRepository defines lookups for staff owned by an account
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.Staff, error)
}

// ProductRepository defines lookups for products owned by an account
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]entity.Product, error)
}
