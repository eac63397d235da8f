package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Transaction represents an invoice billed to a client
type Transaction struct {
	ID              uint                   `gorm:"primaryKey" json:"-"`
	ExternalID      uuid.UUID              `gorm:"type:uuid;uniqueIndex;not null" json:"id"`
	AccountID       uuid.UUID              `gorm:"type:uuid;not null;index" json:"account_id"`
	ClientID        uuid.UUID              `gorm:"type:uuid;not null;index" json:"client_id"`
	TransactionDate time.Time              `gorm:"type:date;not null;index" json:"transaction_date"`
	DueDate         *time.Time             `gorm:"type:date" json:"due_date,omitempty"`
	ReferenceNumber string                 `gorm:"size:100;index" json:"reference_number"`
	Notes           string                 `gorm:"type:text" json:"notes,omitempty"`
	Terms           string                 `gorm:"type:text" json:"terms,omitempty"`
	PaymentMethod   string                 `gorm:"size:50" json:"payment_method,omitempty"`
	Status          enum.TransactionStatus `gorm:"not null;default:0;index" json:"status"`
	Subtotal        int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TaxAmount       int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TotalAmount     int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`

	// Relationships
	Client   *Client              `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items    []TransactionItem    `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
	Payments []TransactionPayment `gorm:"foreignKey:TransactionID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Subtotal    float64 `json:"subtotal"`
		TaxAmount   float64 `json:"tax_amount"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(t),
		Subtotal:    money.ToFloat(t.Subtotal),
		TaxAmount:   money.ToFloat(t.TaxAmount),
		TotalAmount: money.ToFloat(t.TotalAmount),
	})
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem represents a line on a transaction
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"-"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Quantity      decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"quantity"`
	UnitPrice     int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TaxRate       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Total         int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time       `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.ToFloat(i.UnitPrice),
		Total:     money.ToFloat(i.Total),
	})
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// TransactionPayment is a settlement applied against a transaction
type TransactionPayment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TransactionID   uint      `gorm:"not null;index" json:"-"`
	AccountID       uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount          int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	PaymentDate     time.Time `gorm:"type:date;not null" json:"payment_date"`
	PaymentMethod   string    `gorm:"size:50" json:"payment_method,omitempty"`
	ReferenceNumber string    `gorm:"size:100" json:"reference_number,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p TransactionPayment) MarshalJSON() ([]byte, error) {
	type Alias TransactionPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: money.ToFloat(p.Amount),
	})
}

// TableName returns the table name for the TransactionPayment model
func (TransactionPayment) TableName() string {
	return "transaction_payments"
}
