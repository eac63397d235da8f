package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TransactionItemRequest represents a line of a transaction request.
// UnitPrice and TaxRate default to the product's values.
type TransactionItemRequest struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description" binding:"max=255"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// TransactionRequest represents a transaction create or update request
type TransactionRequest struct {
	ClientID        uuid.UUID                `json:"client_id" binding:"required"`
	TransactionDate string                   `json:"transaction_date"`
	DueDate         string                   `json:"due_date"`
	ReferenceNumber string                   `json:"reference_number" binding:"max=100"`
	Notes           string                   `json:"notes"`
	Terms           string                   `json:"terms"`
	PaymentMethod   string                   `json:"payment_method" binding:"max=50"`
	Status          *enum.TransactionStatus  `json:"status"`
	Items           []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransactionFilterRequest represents transaction list query parameters
type TransactionFilterRequest struct {
	Page      string `form:"page"`
	PerPage   string `form:"per_page"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	ClientID  string `form:"client_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}
