package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnedBy returns a GORM scope that filters by the owning account.
// It should be applied to every query for account-owned entities.
func OwnedBy(accountID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if accountID == uuid.Nil {
			// Fail-safe: no account, no rows
			return db.Where("1 = 0")
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "account_id"},
			Value:  accountID,
		})
	}
}

// DateRange returns a GORM scope restricting column to [start, end).
// Nil bounds are open.
func DateRange(column string, start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(clause.Gte{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: *start})
		}
		if end != nil {
			db = db.Where(clause.Lt{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: *end})
		}
		return db
	}
}
