package summary

import (
	"sort"

	"armory/pkg/models"
)

// netMovements excludes expenditure: it is the quantity that moved onto or
// off the base's books, not what left them through consumption.
func netMovements(d *AssetDeltas) int {
	return d.Purchases + d.TransfersIn - d.TransfersOut
}

// balance is the on-hand quantity a replay of the deltas produces. Assigned
// stock stays on the books until expended, so it does not enter the balance.
func balance(d *AssetDeltas) int {
	return netMovements(d) - d.Expended
}

// BuildSummaries derives the windowed ledger view from two replays: the
// opening deltas cover everything strictly before the window, the window
// deltas cover the window itself. Only assets with transactions inside the
// window appear; closingBalance = openingBalance + netMovements - expended
// holds for every row.
func BuildSummaries(opening, window map[int]*AssetDeltas) []models.AssetSummary {
	summaries := make([]models.AssetSummary, 0, len(window))
	for assetID, d := range window {
		openingBalance := 0
		if o, ok := opening[assetID]; ok {
			openingBalance = balance(o)
		}

		summaries = append(summaries, models.AssetSummary{
			AssetID:        assetID,
			AssetName:      d.AssetName,
			Category:       d.Category,
			OpeningBalance: openingBalance,
			ClosingBalance: openingBalance + netMovements(d) - d.Expended,
			Purchases:      d.Purchases,
			TransfersIn:    d.TransfersIn,
			TransfersOut:   d.TransfersOut,
			Assigned:       d.Assigned,
			Expended:       d.Expended,
			NetMovements:   netMovements(d),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AssetName != summaries[j].AssetName {
			return summaries[i].AssetName < summaries[j].AssetName
		}
		return summaries[i].AssetID < summaries[j].AssetID
	})

	return summaries
}

// FoldTotals sums the per-asset summaries into base-wide figures. Each
// transaction line item contributes to exactly one asset, so the fold cannot
// double count.
func FoldTotals(summaries []models.AssetSummary) models.SummaryTotals {
	var totals models.SummaryTotals
	for _, s := range summaries {
		totals.OpeningBalance += s.OpeningBalance
		totals.ClosingBalance += s.ClosingBalance
		totals.TotalPurchases += s.Purchases
		totals.TotalTransfersIn += s.TransfersIn
		totals.TotalTransfersOut += s.TransfersOut
		totals.TotalAssigned += s.Assigned
		totals.TotalExpended += s.Expended
		totals.TotalNetMovements += s.NetMovements
	}
	return totals
}
