package models

// InventoryStock is the derived per (base, asset) snapshot. All counters
// except Quantity are monotonically non-decreasing lifetime totals.
//
// Invariant: Quantity = Purchased + TransferredIn - TransferredOut - Expended.
// Assigned-but-unexpended stock stays counted in Quantity: checked out but
// still accountable.
type InventoryStock struct {
	BaseID         int      `json:"base" db:"base_id"`
	AssetID        int      `json:"asset" db:"asset_id"`
	AssetName      string   `json:"asset_name,omitempty" db:"asset_name"`
	Category       Category `json:"category,omitempty" db:"category"`
	Unit           string   `json:"unit,omitempty" db:"unit"`
	Quantity       int      `json:"quantity" db:"quantity"`
	Purchased      int      `json:"purchased" db:"purchased"`
	Assigned       int      `json:"assigned" db:"assigned"`
	Expended       int      `json:"expended" db:"expended"`
	TransferredIn  int      `json:"transferred_in" db:"transferred_in"`
	TransferredOut int      `json:"transferred_out" db:"transferred_out"`
}

// Consistent reports whether the counters satisfy the stock invariant.
func (s *InventoryStock) Consistent() bool {
	return s.Quantity == s.Purchased+s.TransferredIn-s.TransferredOut-s.Expended
}

func (s *InventoryStock) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.AssetID,
		ResourceType: "stock",
	}
}
