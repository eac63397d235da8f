package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new transaction payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.TransactionPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, accountID uuid.UUID, id uint) (*entity.TransactionPayment, error) {
	var payment entity.TransactionPayment
	err := r.db.WithContext(ctx).Scopes(OwnedBy(accountID)).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) ListByTransactionID(ctx context.Context, transactionID uint) ([]entity.TransactionPayment, error) {
	var payments []entity.TransactionPayment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumByTransactionID(ctx context.Context, transactionID uint, excludeID uint) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.TransactionPayment{}).
		Where("transaction_id = ?", transactionID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.TransactionPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.TransactionPayment{}, "id = ?", id).Error
}

func (r *paymentRepository) DeleteByTransactionID(ctx context.Context, transactionID uint) error {
	return r.db.WithContext(ctx).Delete(&entity.TransactionPayment{}, "transaction_id = ?", transactionID).Error
}
