package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/money"
)

// LedgerEntry is an income or expense row mirrored from a financial event.
// The pair (ReferenceType, ReferenceID) identifies the event and is unique.
type LedgerEntry struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	AccountID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"account_id"`
	EntryDate     time.Time          `gorm:"type:date;not null;index" json:"entry_date"`
	EntryType     enum.EntryType     `gorm:"size:20;not null;index" json:"entry_type"`
	Amount        int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Description   string             `gorm:"size:255" json:"description"`
	ReferenceID   string             `gorm:"size:100;not null;uniqueIndex:idx_ledger_reference" json:"reference_id"`
	ReferenceType enum.ReferenceType `gorm:"size:50;not null;uniqueIndex:idx_ledger_reference" json:"reference_type"`
	ClientID      *uuid.UUID         `gorm:"type:uuid;index" json:"client_id,omitempty"`
	StaffID       *uuid.UUID         `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: money.ToFloat(e.Amount),
	})
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// LedgerReferenceKey builds the reference id linking a ledger entry to its
// source event. Create, update and delete paths must all go through it.
func LedgerReferenceKey(refType enum.ReferenceType, sourceID interface{}) string {
	return fmt.Sprintf("%s:%v", refType, sourceID)
}
