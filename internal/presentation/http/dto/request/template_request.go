package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionTemplateRequest represents a quick transaction template request
type TransactionTemplateRequest struct {
	Name          string           `json:"name" binding:"required,max=255"`
	ClientID      uuid.UUID        `json:"client_id" binding:"required"`
	ProductID     *uuid.UUID       `json:"product_id"`
	Description   string           `json:"description" binding:"max=255"`
	Amount        *decimal.Decimal `json:"amount"`
	Quantity      decimal.Decimal  `json:"quantity"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	PaymentMethod string           `json:"payment_method" binding:"max=50"`
	Notes         string           `json:"notes"`
	MarkAsPaid    bool             `json:"mark_as_paid"`
	IsActive      *bool            `json:"is_active"`
}

// StaffPaymentTemplateRequest represents a quick staff payment template request
type StaffPaymentTemplateRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	StaffID       uuid.UUID       `json:"staff_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	Notes         string          `json:"notes"`
	IsActive      *bool           `json:"is_active"`
}
