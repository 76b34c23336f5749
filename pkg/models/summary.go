package models

// AssetSummary is the windowed ledger view for one asset at one base.
// NetMovements excludes expenditure: purchases plus transfers in minus
// transfers out.
type AssetSummary struct {
	AssetID        int      `json:"asset" db:"asset_id"`
	AssetName      string   `json:"asset_name,omitempty" db:"asset_name"`
	Category       Category `json:"category,omitempty" db:"category"`
	OpeningBalance int      `json:"opening_balance"`
	ClosingBalance int      `json:"closing_balance"`
	Purchases      int      `json:"purchases"`
	TransfersIn    int      `json:"transfers_in"`
	TransfersOut   int      `json:"transfers_out"`
	Assigned       int      `json:"assigned"`
	Expended       int      `json:"expended"`
	NetMovements   int      `json:"net_movements"`
}

// SummaryTotals folds per-asset summaries into base-wide figures.
type SummaryTotals struct {
	OpeningBalance    int `json:"opening_balance"`
	ClosingBalance    int `json:"closing_balance"`
	TotalPurchases    int `json:"total_purchases"`
	TotalTransfersIn  int `json:"total_transfers_in"`
	TotalTransfersOut int `json:"total_transfers_out"`
	TotalAssigned     int `json:"total_assigned"`
	TotalExpended     int `json:"total_expended"`
	TotalNetMovements int `json:"total_net_movements"`
}
