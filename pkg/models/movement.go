package models

import (
	"fmt"
	"time"
)

// ActionType tags a movement log entry with the transaction kind it was
// projected from.
type ActionType string

const (
	ActionPurchase    ActionType = "purchase"
	ActionTransfer    ActionType = "transfer"
	ActionAssignment  ActionType = "assignment"
	ActionExpenditure ActionType = "expenditure"
)

func NewActionType(value string) (ActionType, error) {
	action := ActionType(value)
	if !action.isValid() {
		return "", fmt.Errorf("invalid action type: %s", value)
	}
	return action, nil
}

func (a ActionType) isValid() bool {
	switch a {
	case ActionPurchase, ActionTransfer, ActionAssignment, ActionExpenditure:
		return true
	default:
		return false
	}
}

func (a ActionType) String() string {
	return string(a)
}

// MovementLogEntry is the read-only projection of one transaction of any of
// the four kinds. Seq carries the creation order used to break date ties.
type MovementLogEntry struct {
	Seq         int        `json:"-" db:"seq"`
	Date        time.Time  `json:"date" db:"date"`
	ActionType  ActionType `json:"action_type" db:"action_type"`
	BaseID      int        `json:"base" db:"base_id"`
	BaseName    string     `json:"base_name,omitempty" db:"base_name"`
	Items       []LineItem `json:"items"`
	PerformedBy string     `json:"performed_by" db:"performed_by"`
	Remarks     string     `json:"remarks,omitempty" db:"remarks"`
}
