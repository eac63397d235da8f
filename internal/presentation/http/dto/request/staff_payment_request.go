package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffPaymentRequest represents a staff payment request
type StaffPaymentRequest struct {
	StaffID         uuid.UUID       `json:"staff_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method" binding:"max=50"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	Notes           string          `json:"notes"`
}
