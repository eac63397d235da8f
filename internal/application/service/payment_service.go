package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService applies payments against transactions and keeps their
// ledger mirrors and statuses in step
type PaymentService struct {
	store           repository.Store
	ledger          *LedgerMirror
	logger          *zap.Logger
	recomputeStatus bool
	now             func() time.Time
}

// NewPaymentService creates a new payment service. When recomputeStatus is
// set, editing or deleting a payment may move the status backwards.
func NewPaymentService(store repository.Store, ledger *LedgerMirror, logger *zap.Logger, recomputeStatus bool) *PaymentService {
	return &PaymentService{
		store:           store,
		ledger:          ledger,
		logger:          logger,
		recomputeStatus: recomputeStatus,
		now:             time.Now,
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	AccountID       uuid.UUID
	TransactionID   uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

// UpdatePaymentInput represents the update payment input. A nil
// PaymentDate keeps the stored date.
type UpdatePaymentInput struct {
	AccountID       uuid.UUID
	PaymentID       uint
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

// PaymentResult is returned by every payment write
type PaymentResult struct {
	Payment           *entity.TransactionPayment `json:"payment,omitempty"`
	TransactionStatus enum.TransactionStatus     `json:"transaction_status"`
	TotalPaid         float64                    `json:"total_paid"`
	RemainingAmount   float64                    `json:"remaining_amount"`
	Message           string                     `json:"message"`
}

// PaymentList is the payment history of one transaction
type PaymentList struct {
	Payments         []entity.TransactionPayment `json:"payments"`
	TotalPaid        float64                     `json:"totalPaid"`
	RemainingAmount  float64                     `json:"remainingAmount"`
	TransactionTotal float64                     `json:"transactionTotal"`
}

// PaymentSummary describes how far a transaction is settled
type PaymentSummary struct {
	TransactionAmount float64                `json:"transaction_amount"`
	TotalPaid         float64                `json:"total_paid"`
	RemainingAmount   float64                `json:"remaining_amount"`
	PaymentCount      int                    `json:"payment_count"`
	Status            enum.TransactionStatus `json:"status"`
	PaymentPercentage float64                `json:"payment_percentage"`
}

// validAmount converts a submitted amount to cents. Amounts finer than a
// cent are rejected rather than rounded.
func validAmount(amount decimal.Decimal) (int64, error) {
	if !amount.Equal(amount.Round(2)) {
		return 0, apperror.NewFieldError("amount", "Amount cannot have more than two decimal places")
	}
	cents := money.FromDecimal(amount)
	if cents <= 0 {
		return 0, apperror.NewFieldError("amount", "Amount must be greater than zero")
	}
	return cents, nil
}

// settledAmount returns what counts as paid on txn: its payments (minus
// excludeID) plus the income mirrored when it was created as paid
func settledAmount(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, excludeID uint) (int64, error) {
	paid, err := r.Payments.SumByTransactionID(ctx, txn.ID, excludeID)
	if err != nil {
		return 0, err
	}

	key := entity.LedgerReferenceKey(enum.ReferenceClientTransaction, txn.ID)
	mirror, err := r.Ledger.GetByReference(ctx, enum.ReferenceClientTransaction, key)
	if err != nil {
		return 0, err
	}
	if mirror != nil {
		paid += mirror.Amount
	}
	return paid, nil
}

func remaining(total, paid int64) int64 {
	if paid >= total {
		return 0
	}
	return total - paid
}

// RecordPayment applies a payment to a transaction. The balance check and
// every write happen under a row lock in one atomic block.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	cents, err := validAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	paymentDate := utils.DateOnly(s.now())
	if input.PaymentDate != nil {
		paymentDate = utils.DateOnly(*input.PaymentDate)
	}

	var result PaymentResult
	err = s.store.Atomic(ctx, func(r *repository.Repositories) error {
		txn, err := r.Transactions.GetForUpdate(ctx, input.AccountID, input.TransactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		paid, err := settledAmount(ctx, r, txn, 0)
		if err != nil {
			return err
		}

		balance := remaining(txn.TotalAmount, paid)
		if cents > balance {
			return apperror.NewExceedsBalanceError(money.ToFloat(balance))
		}

		payment := &entity.TransactionPayment{
			TransactionID:   txn.ID,
			AccountID:       input.AccountID,
			Amount:          cents,
			PaymentDate:     paymentDate,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}

		if err := s.ledger.MirrorPayment(ctx, r, txn, payment); err != nil {
			return err
		}

		paid += cents
		status := DeriveStatus(txn.TotalAmount, paid, txn.Status)
		if status != txn.Status {
			if err := r.Transactions.UpdateStatus(ctx, txn.ID, status); err != nil {
				return err
			}
		}

		result = PaymentResult{
			Payment:           payment,
			TransactionStatus: status,
			TotalPaid:         money.ToFloat(paid),
			RemainingAmount:   money.ToFloat(remaining(txn.TotalAmount, paid)),
			Message:           "Payment recorded successfully",
		}
		if status == enum.TransactionStatusPaid {
			result.Message = "Payment recorded. Transaction is fully paid"
		}
		return nil
	})
	if err != nil {
		logRollback(s.logger, "record payment", input.AccountID, err)
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("account_id", input.AccountID.String()),
		zap.String("transaction_id", input.TransactionID.String()),
		zap.Uint("payment_id", result.Payment.ID),
		zap.String("amount", money.Format(cents)),
		zap.Stringer("status", result.TransactionStatus),
	)
	return &result, nil
}

// UpdatePayment edits a payment and its ledger mirror. The new amount plus
// every other payment must still fit in the transaction total.
func (s *PaymentService) UpdatePayment(ctx context.Context, input *UpdatePaymentInput) (*PaymentResult, error) {
	cents, err := validAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	var result PaymentResult
	err = s.store.Atomic(ctx, func(r *repository.Repositories) error {
		payment, err := r.Payments.GetByID(ctx, input.AccountID, input.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}

		txn, err := r.Transactions.GetByIDForUpdate(ctx, input.AccountID, payment.TransactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		others, err := settledAmount(ctx, r, txn, payment.ID)
		if err != nil {
			return err
		}

		available := remaining(txn.TotalAmount, others)
		if cents > available {
			return apperror.NewExceedsBalanceError(money.ToFloat(available))
		}

		payment.Amount = cents
		if input.PaymentDate != nil {
			payment.PaymentDate = utils.DateOnly(*input.PaymentDate)
		}
		payment.PaymentMethod = input.PaymentMethod
		payment.ReferenceNumber = input.ReferenceNumber
		payment.Notes = input.Notes
		if err := r.Payments.Update(ctx, payment); err != nil {
			return err
		}

		if err := s.ledger.UpdatePaymentMirror(ctx, r, txn, payment); err != nil {
			return err
		}

		paid := others + cents
		status, err := s.maybeRecompute(ctx, r, txn, paid)
		if err != nil {
			return err
		}

		result = PaymentResult{
			Payment:           payment,
			TransactionStatus: status,
			TotalPaid:         money.ToFloat(paid),
			RemainingAmount:   money.ToFloat(remaining(txn.TotalAmount, paid)),
			Message:           "Payment updated successfully",
		}
		return nil
	})
	if err != nil {
		logRollback(s.logger, "update payment", input.AccountID, err)
		return nil, err
	}

	s.logger.Info("payment updated",
		zap.String("account_id", input.AccountID.String()),
		zap.Uint("payment_id", input.PaymentID),
		zap.String("amount", money.Format(cents)),
	)
	return &result, nil
}

// DeletePayment removes a payment together with its ledger mirror
func (s *PaymentService) DeletePayment(ctx context.Context, accountID uuid.UUID, paymentID uint) (*PaymentResult, error) {
	var result PaymentResult
	err := s.store.Atomic(ctx, func(r *repository.Repositories) error {
		payment, err := r.Payments.GetByID(ctx, accountID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}

		txn, err := r.Transactions.GetByIDForUpdate(ctx, accountID, payment.TransactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		if err := s.ledger.RemovePaymentMirror(ctx, r, payment.ID); err != nil {
			return err
		}
		if err := r.Payments.Delete(ctx, payment.ID); err != nil {
			return err
		}

		paid, err := settledAmount(ctx, r, txn, 0)
		if err != nil {
			return err
		}

		status, err := s.maybeRecompute(ctx, r, txn, paid)
		if err != nil {
			return err
		}

		result = PaymentResult{
			TransactionStatus: status,
			TotalPaid:         money.ToFloat(paid),
			RemainingAmount:   money.ToFloat(remaining(txn.TotalAmount, paid)),
			Message:           "Payment deleted successfully",
		}
		return nil
	})
	if err != nil {
		logRollback(s.logger, "delete payment", accountID, err)
		return nil, err
	}

	s.logger.Info("payment deleted",
		zap.String("account_id", accountID.String()),
		zap.Uint("payment_id", paymentID),
	)
	return &result, nil
}

// maybeRecompute persists RecomputeStatus when the recompute flag is on and
// otherwise leaves the status as it was
func (s *PaymentService) maybeRecompute(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, paid int64) (enum.TransactionStatus, error) {
	if !s.recomputeStatus {
		return txn.Status, nil
	}

	status := RecomputeStatus(txn.TotalAmount, paid, txn.Status)
	if status != txn.Status {
		if err := r.Transactions.UpdateStatus(ctx, txn.ID, status); err != nil {
			return txn.Status, err
		}
	}
	return status, nil
}

// GetPayments returns the payments of a transaction ordered by date
func (s *PaymentService) GetPayments(ctx context.Context, accountID, transactionID uuid.UUID) (*PaymentList, error) {
	r := s.store.Repos()

	txn, err := r.Transactions.GetByExternalID(ctx, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	payments, err := r.Payments.ListByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []entity.TransactionPayment{}
	}

	paid, err := settledAmount(ctx, r, txn, 0)
	if err != nil {
		return nil, err
	}

	return &PaymentList{
		Payments:         payments,
		TotalPaid:        money.ToFloat(paid),
		RemainingAmount:  money.ToFloat(remaining(txn.TotalAmount, paid)),
		TransactionTotal: money.ToFloat(txn.TotalAmount),
	}, nil
}

// GetPaymentSummary returns the settlement figures of a transaction
func (s *PaymentService) GetPaymentSummary(ctx context.Context, accountID, transactionID uuid.UUID) (*PaymentSummary, error) {
	r := s.store.Repos()

	txn, err := r.Transactions.GetByExternalID(ctx, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	payments, err := r.Payments.ListByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, err
	}

	paid, err := settledAmount(ctx, r, txn, 0)
	if err != nil {
		return nil, err
	}

	return &PaymentSummary{
		TransactionAmount: money.ToFloat(txn.TotalAmount),
		TotalPaid:         money.ToFloat(paid),
		RemainingAmount:   money.ToFloat(remaining(txn.TotalAmount, paid)),
		PaymentCount:      len(payments),
		Status:            txn.Status,
		PaymentPercentage: money.Percentage(paid, txn.TotalAmount),
	}, nil
}
