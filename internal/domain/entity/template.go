package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuickTransactionTemplate is a saved parameter set for a one-line sale
type QuickTransactionTemplate struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	AccountID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"account_id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	ClientID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"client_id"`
	ProductID     *uuid.UUID       `gorm:"type:uuid" json:"product_id,omitempty"`
	Description   string           `gorm:"size:255" json:"description,omitempty"`
	Amount        int64            `gorm:"not null" json:"-"` // Unit price in cents when no product is set
	Quantity      decimal.Decimal  `gorm:"type:numeric(12,4);not null" json:"quantity"`
	TaxRate       *decimal.Decimal `gorm:"type:numeric(5,2)" json:"tax_rate,omitempty"` // Overrides the product rate when set
	PaymentMethod string           `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
	MarkAsPaid    bool             `gorm:"not null" json:"mark_as_paid"`
	IsActive      bool             `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t QuickTransactionTemplate) MarshalJSON() ([]byte, error) {
	type Alias QuickTransactionTemplate
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: money.ToFloat(t.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new template
func (t *QuickTransactionTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuickTransactionTemplate model
func (QuickTransactionTemplate) TableName() string {
	return "quick_transaction_templates"
}

// QuickStaffPaymentTemplate is a saved parameter set for a recurring staff payout
type QuickStaffPaymentTemplate struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AccountID     uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	StaffID       uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	Amount        int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethod string    `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t QuickStaffPaymentTemplate) MarshalJSON() ([]byte, error) {
	type Alias QuickStaffPaymentTemplate
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: money.ToFloat(t.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new template
func (t *QuickStaffPaymentTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuickStaffPaymentTemplate model
func (QuickStaffPaymentTemplate) TableName() string {
	return "quick_staff_payment_templates"
}
