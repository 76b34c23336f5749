package models

// Base is a physical installation holding its own inventory. Every stock
// record, assignment and expenditure is scoped to exactly one base.
type Base struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	District string `json:"district" db:"district"`
	State    string `json:"state" db:"state"`
}

func (b *Base) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "base",
	}
}

type BaseRequest struct {
	Name     string `json:"name" binding:"required"`
	District string `json:"district" binding:"required"`
	State    string `json:"state" binding:"required"`
}
