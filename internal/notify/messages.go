package notify

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// BillReminderMessage is the payload delivered when a reminder comes due.
// It carries the reminder's snapshot so consumers need no access to the
// store.
type BillReminderMessage struct {
	ReminderID  string    `json:"reminder_id"`
	ExpenseID   string    `json:"expense_id"`
	ExpenseName string    `json:"expense_name"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	DueDate     time.Time `json:"due_date"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBillReminderMessage builds a message from a reminder snapshot.
func NewBillReminderMessage(r core.Reminder, currency string) *BillReminderMessage {
	return &BillReminderMessage{
		ReminderID:  r.ID,
		ExpenseID:   r.ExpenseID,
		ExpenseName: r.ExpenseName,
		Amount:      r.Amount,
		Currency:    currency,
		DueDate:     r.DueDate,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillReminderMessageFromJSON creates a message from JSON bytes
func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
