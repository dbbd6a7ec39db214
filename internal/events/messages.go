package events

import (
	"encoding/json"
	"time"
)

// Expense event actions.
const (
	ActionExpenseCreated = "expense.created"
	ActionExpenseUpdated = "expense.updated"
	ActionExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is a lightweight message emitted after a successful expense
// mutation. Consumers fetch the full expense from the API or database;
// only the ID and action travel on the wire.
type ExpenseEvent struct {
	ExpenseID string    `json:"expense_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event for the given expense and action.
func NewExpenseEvent(expenseID, action string) *ExpenseEvent {
	return &ExpenseEvent{
		ExpenseID: expenseID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
