package models

import "time"

// Transfer moves quantities between two distinct bases. The outgoing and
// incoming sides are two views of the same record, never created
// independently.
type Transfer struct {
	ID           int        `json:"id" db:"id"`
	FromBaseID   int        `json:"from_base" db:"from_base_id"`
	FromBaseName string     `json:"from_base_name,omitempty" db:"from_base_name"`
	ToBaseID     int        `json:"to_base" db:"to_base_id"`
	ToBaseName   string     `json:"to_base_name,omitempty" db:"to_base_name"`
	TransferDate time.Time  `json:"transfer_date" db:"transfer_date"`
	InvoiceNo    string     `json:"invoice_no" db:"invoice_no"`
	Items        []LineItem `json:"items"`
	Remarks      string     `json:"remarks,omitempty" db:"remarks"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (t *Transfer) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "transfer",
	}
}

type TransferRequest struct {
	FromBaseID   int               `json:"from_base" binding:"required"`
	ToBaseID     int               `json:"to_base" binding:"required"`
	TransferDate time.Time         `json:"transfer_date" binding:"required"`
	InvoiceNo    string            `json:"invoice_no" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Remarks      string            `json:"remarks"`
}
