package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TransactionStatus represents the settlement status of a transaction
type TransactionStatus int

const (
	TransactionStatusDraft   TransactionStatus = 0
	TransactionStatusPending TransactionStatus = 1
	TransactionStatusPartial TransactionStatus = 2
	TransactionStatusPaid    TransactionStatus = 3
	TransactionStatusOverdue TransactionStatus = 4
)

var transactionStatusNames = [...]string{"draft", "pending", "partial", "paid", "overdue"}

func (s TransactionStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("unknown(%d)", int(s))
	}
	return transactionStatusNames[s]
}

// IsValid reports whether s is one of the known statuses
func (s TransactionStatus) IsValid() bool {
	return s >= TransactionStatusDraft && s <= TransactionStatusOverdue
}

// ParseTransactionStatus converts a status name into a TransactionStatus
func ParseTransactionStatus(name string) (TransactionStatus, error) {
	for i, n := range transactionStatusNames {
		if strings.EqualFold(n, name) {
			return TransactionStatus(i), nil
		}
	}
	return TransactionStatusDraft, fmt.Errorf("unknown transaction status %q", name)
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !TransactionStatus(i).IsValid() {
			return fmt.Errorf("unknown transaction status %d", i)
		}
		*s = TransactionStatus(i)
		return nil
	}
	status, err := ParseTransactionStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TransactionStatus(v)
	case int:
		*s = TransactionStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into TransactionStatus", value)
	}
	return nil
}
