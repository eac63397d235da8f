package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/pagination"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) GetByReference(ctx context.Context, refType enum.ReferenceType, refID string) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) Update(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *ledgerRepository) DeleteByReference(ctx context.Context, refType enum.ReferenceType, refID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Delete(&entity.LedgerEntry{})
	return result.RowsAffected, result.Error
}

func (r *ledgerRepository) List(ctx context.Context, accountID uuid.UUID, params *domainRepo.LedgerFilterParams) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry

	query := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Scopes(OwnedBy(accountID), DateRange("entry_date", params.StartDate, params.EndDate))

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if params.StaffID != nil {
		query = query.Where("staff_id = ?", *params.StaffID)
	}

	if params.EntryType != nil {
		query = query.Where("entry_type = ?", *params.EntryType)
	}

	err := query.Order("entry_date DESC, id DESC").Find(&entries).Error
	return entries, err
}

type staffPaymentRepository struct {
	db *gorm.DB
}

// NewStaffPaymentRepository creates a new staff payment repository
func NewStaffPaymentRepository(db *gorm.DB) domainRepo.StaffPaymentRepository {
	return &staffPaymentRepository{db: db}
}

func (r *staffPaymentRepository) Create(ctx context.Context, payment *entity.StaffPayment) error {
	return r.db.WithContext(ctx).Omit("Staff").Create(payment).Error
}

func (r *staffPaymentRepository) GetByID(ctx context.Context, accountID uuid.UUID, id uint) (*entity.StaffPayment, error) {
	var payment entity.StaffPayment
	err := r.db.WithContext(ctx).Scopes(OwnedBy(accountID)).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *staffPaymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.StaffPayment{}, "id = ?", id).Error
}

func (r *staffPaymentRepository) List(ctx context.Context, accountID uuid.UUID, staffID *uuid.UUID, params *pagination.PaginationParams) ([]entity.StaffPayment, int64, error) {
	var payments []entity.StaffPayment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StaffPayment{}).Scopes(OwnedBy(accountID))
	if staffID != nil {
		query = query.Where("staff_id = ?", *staffID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Staff").
		Order("payment_date DESC, id DESC").
		Find(&payments).Error

	return payments, total, err
}
