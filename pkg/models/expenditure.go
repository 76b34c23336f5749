package models

import "time"

// Expenditure permanently removes quantity from accountable stock. When it
// fulfills an assignment it carries the assignment's id; direct expenditures
// (consumption without a prior checkout) leave AssignmentID nil.
type Expenditure struct {
	ID           int        `json:"id" db:"id"`
	BaseID       int        `json:"base" db:"base_id"`
	BaseName     string     `json:"base_name,omitempty" db:"base_name"`
	ExpendedBy   string     `json:"expended_by" db:"expended_by"`
	ExpendDate   time.Time  `json:"expend_date" db:"expend_date"`
	Items        []LineItem `json:"items"`
	Remarks      string     `json:"remarks,omitempty" db:"remarks"`
	AssignmentID *int       `json:"assignment,omitempty" db:"assignment_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (e *Expenditure) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   e.ID,
		ResourceType: "expenditure",
	}
}

type ExpenditureRequest struct {
	BaseID     int               `json:"base" binding:"required"`
	ExpendedBy string            `json:"expended_by" binding:"required"`
	ExpendDate time.Time         `json:"expend_date" binding:"required"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Remarks    string            `json:"remarks"`
}

// FulfillmentRequest selects assignment items to expend in full.
type FulfillmentRequest struct {
	ExpendedBy string    `json:"expended_by" binding:"required"`
	ExpendDate time.Time `json:"expend_date" binding:"required"`
	Items      []int     `json:"items" binding:"required,min=1"`
	Remarks    string    `json:"remarks"`
}
