package models

import "time"

// Purchase is strictly additive: each line item increases the purchased
// counter and the on-hand quantity at the receiving base.
type Purchase struct {
	ID           int        `json:"id" db:"id"`
	BaseID       int        `json:"base" db:"base_id"`
	BaseName     string     `json:"base_name,omitempty" db:"base_name"`
	PurchaseDate time.Time  `json:"purchase_date" db:"purchase_date"`
	InvoiceNo    string     `json:"invoice_no" db:"invoice_no"`
	Items        []LineItem `json:"items"`
	Remarks      string     `json:"remarks,omitempty" db:"remarks"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (p *Purchase) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "purchase",
	}
}

type PurchaseRequest struct {
	BaseID       int               `json:"base" binding:"required"`
	PurchaseDate time.Time         `json:"purchase_date" binding:"required"`
	InvoiceNo    string            `json:"invoice_no" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Remarks      string            `json:"remarks"`
}
