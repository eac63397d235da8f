package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/pkg/money"
)

// StaffPayment is a payout to a staff member, mirrored as a ledger expense
type StaffPayment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AccountID       uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	StaffID         uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	Amount          int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	PaymentDate     time.Time `gorm:"type:date;not null" json:"payment_date"`
	PaymentMethod   string    `gorm:"size:50" json:"payment_method,omitempty"`
	ReferenceNumber string    `gorm:"size:100" json:"reference_number,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Staff *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p StaffPayment) MarshalJSON() ([]byte, error) {
	type Alias StaffPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: money.ToFloat(p.Amount),
	})
}

// TableName returns the table name for the StaffPayment model
func (StaffPayment) TableName() string {
	return "staff_payments"
}
