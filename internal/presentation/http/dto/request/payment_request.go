package request

import "github.com/shopspring/decimal"

// Payment actions accepted by the payment endpoint
const (
	ActionGetPayments       = "get-payments"
	ActionRecordPayment     = "record-payment"
	ActionUpdatePayment     = "update-payment"
	ActionDeletePayment     = "delete-payment"
	ActionGetPaymentSummary = "get-payment-summary"
)

// PaymentActionRequest is the body of the payment endpoint. Which fields are
// required depends on Action.
type PaymentActionRequest struct {
	Action          string           `json:"action" binding:"required"`
	TransactionID   string           `json:"transactionId"`
	PaymentID       uint             `json:"paymentId"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     string           `json:"paymentDate"`
	PaymentMethod   string           `json:"paymentMethod" binding:"max=50"`
	ReferenceNumber string           `json:"referenceNumber" binding:"max=100"`
	Notes           string           `json:"notes"`
}
