package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StaffPaymentService records payouts to staff and their ledger expenses
type StaffPaymentService struct {
	store  repository.Store
	ledger *LedgerMirror
	logger *zap.Logger
	now    func() time.Time
}

// NewStaffPaymentService creates a new staff payment service
func NewStaffPaymentService(store repository.Store, ledger *LedgerMirror, logger *zap.Logger) *StaffPaymentService {
	return &StaffPaymentService{
		store:  store,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// RecordStaffPaymentInput represents the record staff payment input
type RecordStaffPaymentInput struct {
	AccountID       uuid.UUID
	StaffID         uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

// RecordStaffPayment stores a payout and its expense entry in one block
func (s *StaffPaymentService) RecordStaffPayment(ctx context.Context, input *RecordStaffPaymentInput) (*entity.StaffPayment, error) {
	cents, err := validAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	paymentDate := utils.DateOnly(s.now())
	if input.PaymentDate != nil {
		paymentDate = utils.DateOnly(*input.PaymentDate)
	}

	var payment *entity.StaffPayment
	err = s.store.Atomic(ctx, func(r *repository.Repositories) error {
		staff, err := r.Staff.GetByID(ctx, input.AccountID, input.StaffID)
		if err != nil {
			return err
		}
		if staff == nil {
			return apperror.NewNotFoundError("Staff")
		}

		payment = &entity.StaffPayment{
			AccountID:       input.AccountID,
			StaffID:         staff.ID,
			Amount:          cents,
			PaymentDate:     paymentDate,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
		}
		if err := r.StaffPayments.Create(ctx, payment); err != nil {
			return err
		}
		payment.Staff = staff

		return s.ledger.MirrorStaffPayment(ctx, r, payment, staff.Name)
	})
	if err != nil {
		logRollback(s.logger, "record staff payment", input.AccountID, err)
		return nil, err
	}

	s.logger.Info("staff payment recorded",
		zap.String("account_id", input.AccountID.String()),
		zap.String("staff_id", input.StaffID.String()),
		zap.Uint("staff_payment_id", payment.ID),
		zap.String("amount", money.Format(cents)),
	)
	return payment, nil
}

// DeleteStaffPayment removes a payout and its expense entry
func (s *StaffPaymentService) DeleteStaffPayment(ctx context.Context, accountID uuid.UUID, id uint) error {
	err := s.store.Atomic(ctx, func(r *repository.Repositories) error {
		payment, err := r.StaffPayments.GetByID(ctx, accountID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Staff payment")
		}

		if err := s.ledger.RemoveStaffPaymentMirror(ctx, r, payment.ID); err != nil {
			return err
		}
		return r.StaffPayments.Delete(ctx, payment.ID)
	})
	if err != nil {
		logRollback(s.logger, "delete staff payment", accountID, err)
		return err
	}

	s.logger.Info("staff payment deleted",
		zap.String("account_id", accountID.String()),
		zap.Uint("staff_payment_id", id),
	)
	return nil
}

// ListStaffPayments lists payouts, optionally for a single staff member
func (s *StaffPaymentService) ListStaffPayments(ctx context.Context, accountID uuid.UUID, staffID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StaffPayment], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	payments, total, err := s.store.Repos().StaffPayments.List(ctx, accountID, staffID, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, p), nil
}
