package service

import (
	"context"
	"fmt"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"go.uber.org/zap"
)

// LedgerMirror owns every write to the ledger. Each method runs against the
// repositories of the caller's atomic block and never opens its own.
type LedgerMirror struct {
	logger *zap.Logger
}

// NewLedgerMirror creates a new ledger mirror
func NewLedgerMirror(logger *zap.Logger) *LedgerMirror {
	return &LedgerMirror{logger: logger}
}

func paymentDescription(txn *entity.Transaction) string {
	if txn.ReferenceNumber == "" {
		return "Payment received"
	}
	return "Payment received for " + txn.ReferenceNumber
}

func transactionDescription(txn *entity.Transaction) string {
	if txn.ReferenceNumber == "" {
		return "Transaction settled"
	}
	return "Transaction " + txn.ReferenceNumber
}

// MirrorPayment records the income entry for a newly inserted payment
func (m *LedgerMirror) MirrorPayment(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, p *entity.TransactionPayment) error {
	clientID := txn.ClientID
	entry := &entity.LedgerEntry{
		AccountID:     txn.AccountID,
		EntryDate:     p.PaymentDate,
		EntryType:     enum.EntryTypeIncome,
		Amount:        p.Amount,
		Description:   paymentDescription(txn),
		ReferenceID:   entity.LedgerReferenceKey(enum.ReferenceTransactionPayment, p.ID),
		ReferenceType: enum.ReferenceTransactionPayment,
		ClientID:      &clientID,
	}
	return r.Ledger.Create(ctx, entry)
}

// UpdatePaymentMirror copies an edited payment's amount and date onto its entry
func (m *LedgerMirror) UpdatePaymentMirror(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, p *entity.TransactionPayment) error {
	key := entity.LedgerReferenceKey(enum.ReferenceTransactionPayment, p.ID)
	entry, err := r.Ledger.GetByReference(ctx, enum.ReferenceTransactionPayment, key)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("ledger entry %s is missing", key)
	}

	entry.Amount = p.Amount
	entry.EntryDate = p.PaymentDate
	entry.Description = paymentDescription(txn)
	return r.Ledger.Update(ctx, entry)
}

// RemovePaymentMirror deletes the income entry of a payment
func (m *LedgerMirror) RemovePaymentMirror(ctx context.Context, r *repository.Repositories, paymentID uint) error {
	return m.removeStrict(ctx, r, enum.ReferenceTransactionPayment, paymentID)
}

// MirrorSettledTransaction records the income entry of a transaction that
// was created as paid
func (m *LedgerMirror) MirrorSettledTransaction(ctx context.Context, r *repository.Repositories, txn *entity.Transaction) error {
	clientID := txn.ClientID
	entry := &entity.LedgerEntry{
		AccountID:     txn.AccountID,
		EntryDate:     txn.TransactionDate,
		EntryType:     enum.EntryTypeIncome,
		Amount:        txn.TotalAmount,
		Description:   transactionDescription(txn),
		ReferenceID:   entity.LedgerReferenceKey(enum.ReferenceClientTransaction, txn.ID),
		ReferenceType: enum.ReferenceClientTransaction,
		ClientID:      &clientID,
	}
	return r.Ledger.Create(ctx, entry)
}

// SyncTransactionMirror brings the creation entry in line with an edited
// transaction. paymentsSum is the total of recorded payments: a transaction
// settled through payments already has its income in the ledger.
func (m *LedgerMirror) SyncTransactionMirror(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, paymentsSum int64) error {
	key := entity.LedgerReferenceKey(enum.ReferenceClientTransaction, txn.ID)
	entry, err := r.Ledger.GetByReference(ctx, enum.ReferenceClientTransaction, key)
	if err != nil {
		return err
	}

	if txn.Status != enum.TransactionStatusPaid {
		if entry == nil {
			return nil
		}
		_, err := r.Ledger.DeleteByReference(ctx, enum.ReferenceClientTransaction, key)
		return err
	}

	if entry == nil {
		if paymentsSum > 0 {
			return nil
		}
		return m.MirrorSettledTransaction(ctx, r, txn)
	}

	clientID := txn.ClientID
	entry.Amount = txn.TotalAmount
	entry.EntryDate = txn.TransactionDate
	entry.Description = transactionDescription(txn)
	entry.ClientID = &clientID
	return r.Ledger.Update(ctx, entry)
}

// RemoveTransactionMirrors deletes the creation entry, when there is one,
// and the entry of every payment
func (m *LedgerMirror) RemoveTransactionMirrors(ctx context.Context, r *repository.Repositories, txn *entity.Transaction, payments []entity.TransactionPayment) error {
	key := entity.LedgerReferenceKey(enum.ReferenceClientTransaction, txn.ID)
	if _, err := r.Ledger.DeleteByReference(ctx, enum.ReferenceClientTransaction, key); err != nil {
		return err
	}

	for i := range payments {
		if err := m.RemovePaymentMirror(ctx, r, payments[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// MirrorStaffPayment records the expense entry of a staff payout
func (m *LedgerMirror) MirrorStaffPayment(ctx context.Context, r *repository.Repositories, sp *entity.StaffPayment, staffName string) error {
	staffID := sp.StaffID
	entry := &entity.LedgerEntry{
		AccountID:     sp.AccountID,
		EntryDate:     sp.PaymentDate,
		EntryType:     enum.EntryTypeExpense,
		Amount:        sp.Amount,
		Description:   "Staff payment to " + staffName,
		ReferenceID:   entity.LedgerReferenceKey(enum.ReferenceStaffPayment, sp.ID),
		ReferenceType: enum.ReferenceStaffPayment,
		StaffID:       &staffID,
	}
	return r.Ledger.Create(ctx, entry)
}

// RemoveStaffPaymentMirror deletes the expense entry of a staff payout
func (m *LedgerMirror) RemoveStaffPaymentMirror(ctx context.Context, r *repository.Repositories, staffPaymentID uint) error {
	return m.removeStrict(ctx, r, enum.ReferenceStaffPayment, staffPaymentID)
}

// removeStrict fails when no entry was removed: the source row existed, so
// its mirror must have too.
func (m *LedgerMirror) removeStrict(ctx context.Context, r *repository.Repositories, refType enum.ReferenceType, sourceID uint) error {
	key := entity.LedgerReferenceKey(refType, sourceID)
	removed, err := r.Ledger.DeleteByReference(ctx, refType, key)
	if err != nil {
		return err
	}
	if removed == 0 {
		m.logger.Error("ledger mirror missing", zap.String("reference_id", key))
		return fmt.Errorf("ledger entry %s is missing", key)
	}
	return nil
}
