package service

import "github.com/sangkips/billing-api/internal/domain/enum"

// DeriveStatus returns the status a transaction moves to after a payment.
// A fully paid transaction becomes paid; a pending one with some payment
// becomes partial; anything else keeps its current status.
func DeriveStatus(totalAmount, totalPaid int64, current enum.TransactionStatus) enum.TransactionStatus {
	if totalPaid >= totalAmount {
		return enum.TransactionStatusPaid
	}
	if totalPaid > 0 && current == enum.TransactionStatusPending {
		return enum.TransactionStatusPartial
	}
	return current
}

// RecomputeStatus is the strict variant used after a payment is edited or
// removed: unlike DeriveStatus it can move a partial or paid transaction
// back. Draft and overdue are left alone unless the balance is settled.
func RecomputeStatus(totalAmount, totalPaid int64, current enum.TransactionStatus) enum.TransactionStatus {
	switch {
	case totalPaid >= totalAmount:
		return enum.TransactionStatusPaid
	case totalPaid > 0 && totalPaid < totalAmount:
		if current == enum.TransactionStatusDraft || current == enum.TransactionStatusOverdue {
			return current
		}
		return enum.TransactionStatusPartial
	case totalPaid <= 0:
		if current == enum.TransactionStatusPartial || current == enum.TransactionStatusPaid {
			return enum.TransactionStatusPending
		}
	}
	return current
}
