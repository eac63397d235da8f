package enum

// EntryType is the direction of a ledger entry
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid reports whether t is a known entry type
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// ReferenceType identifies the kind of event a ledger entry mirrors
type ReferenceType string

const (
	// ReferenceClientTransaction mirrors a transaction settled at creation
	ReferenceClientTransaction ReferenceType = "client_transaction"
	// ReferenceTransactionPayment mirrors a single payment against a transaction
	ReferenceTransactionPayment ReferenceType = "transaction_payment"
	// ReferenceStaffPayment mirrors a payout to a staff member
	ReferenceStaffPayment ReferenceType = "staff_payment"
)

// IsValid reports whether t is a known reference type
func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferenceClientTransaction, ReferenceTransactionPayment, ReferenceStaffPayment:
		return true
	}
	return false
}
