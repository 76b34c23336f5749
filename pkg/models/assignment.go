package models

import "time"

// AssignmentStatus is the explicit state of an assignment's fulfillment
// lifecycle. It is always computed from the item flags, never stored.
type AssignmentStatus string

const (
	AssignmentActive            AssignmentStatus = "active"
	AssignmentPartiallyExpended AssignmentStatus = "partially_expended"
	AssignmentExpended          AssignmentStatus = "expended"
)

// AssignmentItem is the unit of fulfillment. Expenditure against an item is
// all-or-nothing for the item's full assigned quantity.
type AssignmentItem struct {
	ID         int    `json:"id" db:"id"`
	AssetID    int    `json:"asset" db:"asset_id"`
	AssetName  string `json:"asset_name,omitempty" db:"asset_name"`
	Quantity   int    `json:"quantity" db:"quantity"`
	IsExpended bool   `json:"is_expended" db:"is_expended"`
}

// Assignment is a checkout of asset quantities to a person, pending
// consumption. It is the only entity with post-creation state transitions.
type Assignment struct {
	ID         int              `json:"id" db:"id"`
	BaseID     int              `json:"base" db:"base_id"`
	BaseName   string           `json:"base_name,omitempty" db:"base_name"`
	AssignedTo string           `json:"assigned_to" db:"assigned_to"`
	AssignDate time.Time        `json:"assign_date" db:"assign_date"`
	Items      []AssignmentItem `json:"items"`
	Remarks    string           `json:"remarks,omitempty" db:"remarks"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// IsExpended holds iff every item has been expended.
func (a *Assignment) IsExpended() bool {
	if len(a.Items) == 0 {
		return false
	}
	for _, item := range a.Items {
		if !item.IsExpended {
			return false
		}
	}
	return true
}

// Status derives the lifecycle state from the item flags.
func (a *Assignment) Status() AssignmentStatus {
	expended := 0
	for _, item := range a.Items {
		if item.IsExpended {
			expended++
		}
	}
	switch {
	case len(a.Items) > 0 && expended == len(a.Items):
		return AssignmentExpended
	case expended > 0:
		return AssignmentPartiallyExpended
	default:
		return AssignmentActive
	}
}

// UnexpendedItems returns the items still eligible for expenditure.
func (a *Assignment) UnexpendedItems() []AssignmentItem {
	var items []AssignmentItem
	for _, item := range a.Items {
		if !item.IsExpended {
			items = append(items, item)
		}
	}
	return items
}

func (a *Assignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "assignment",
	}
}

type AssignmentRequest struct {
	BaseID     int               `json:"base" binding:"required"`
	AssignedTo string            `json:"assigned_to" binding:"required"`
	AssignDate time.Time         `json:"assign_date" binding:"required"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Remarks    string            `json:"remarks"`
}
