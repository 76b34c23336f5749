package models

// LineItem pairs an asset with a quantity inside a purchase, transfer or
// expenditure. Assignment items carry their own expenditure flag, see
// AssignmentItem.
type LineItem struct {
	AssetID   int    `json:"asset" db:"asset_id"`
	AssetName string `json:"asset_name,omitempty" db:"asset_name"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

type LineItemRequest struct {
	AssetID  int `json:"asset" binding:"required"`
	Quantity int `json:"quantity" binding:"required,gte=1"`
}
