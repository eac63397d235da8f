package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type transactionTemplateRepository struct {
	db *gorm.DB
}

// NewTransactionTemplateRepository creates a new sales template repository
func NewTransactionTemplateRepository(db *gorm.DB) domainRepo.TransactionTemplateRepository {
	return &transactionTemplateRepository{db: db}
}

func (r *transactionTemplateRepository) Create(ctx context.Context, tmpl *entity.QuickTransactionTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *transactionTemplateRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickTransactionTemplate, error) {
	var tmpl entity.QuickTransactionTemplate
	err := r.db.WithContext(ctx).Scopes(OwnedBy(accountID)).First(&tmpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tmpl, err
}

func (r *transactionTemplateRepository) List(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickTransactionTemplate, error) {
	var tmpls []entity.QuickTransactionTemplate
	query := r.db.WithContext(ctx).Scopes(OwnedBy(accountID))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&tmpls).Error
	return tmpls, err
}

func (r *transactionTemplateRepository) Update(ctx context.Context, tmpl *entity.QuickTransactionTemplate) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *transactionTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.QuickTransactionTemplate{}, "id = ?", id).Error
}

type staffPaymentTemplateRepository struct {
	db *gorm.DB
}

// NewStaffPaymentTemplateRepository creates a new staff payout template repository
func NewStaffPaymentTemplateRepository(db *gorm.DB) domainRepo.StaffPaymentTemplateRepository {
	return &staffPaymentTemplateRepository{db: db}
}

func (r *staffPaymentTemplateRepository) Create(ctx context.Context, tmpl *entity.QuickStaffPaymentTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *staffPaymentTemplateRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickStaffPaymentTemplate, error) {
	var tmpl entity.QuickStaffPaymentTemplate
	err := r.db.WithContext(ctx).Scopes(OwnedBy(accountID)).First(&tmpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tmpl, err
}

func (r *staffPaymentTemplateRepository) List(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickStaffPaymentTemplate, error) {
	var tmpls []entity.QuickStaffPaymentTemplate
	query := r.db.WithContext(ctx).Scopes(OwnedBy(accountID))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&tmpls).Error
	return tmpls, err
}

func (r *staffPaymentTemplateRepository) Update(ctx context.Context, tmpl *entity.QuickStaffPaymentTemplate) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *staffPaymentTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.QuickStaffPaymentTemplate{}, "id = ?", id).Error
}
