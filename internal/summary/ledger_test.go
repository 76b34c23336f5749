package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummariesClosingBalanceIdentity(t *testing.T) {
	opening := map[int]*AssetDeltas{
		4: {AssetID: 4, Purchases: 100, TransfersIn: 20, TransfersOut: 5, Expended: 15},
	}
	window := map[int]*AssetDeltas{
		4: {AssetID: 4, AssetName: "5.56mm Rifle", Purchases: 50, TransfersIn: 10,
			TransfersOut: 20, Assigned: 25, Expended: 10},
	}

	summaries := BuildSummaries(opening, window)

	assert.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, 100, s.OpeningBalance) // 100 + 20 - 5 - 15
	assert.Equal(t, 40, s.NetMovements)    // 50 + 10 - 20
	assert.Equal(t, s.OpeningBalance+s.NetMovements-s.Expended, s.ClosingBalance)
	assert.Equal(t, 130, s.ClosingBalance)
}

func TestBuildSummariesAssignedStaysOnTheBooks(t *testing.T) {
	window := map[int]*AssetDeltas{
		4: {AssetID: 4, Purchases: 100, Assigned: 60},
	}

	summaries := BuildSummaries(nil, window)

	// Assigned-but-unexpended stock is checked out but still accountable.
	assert.Equal(t, 100, summaries[0].ClosingBalance)
	assert.Equal(t, 60, summaries[0].Assigned)
}

func TestBuildSummariesOmitsAssetsOutsideTheWindow(t *testing.T) {
	opening := map[int]*AssetDeltas{
		4: {AssetID: 4, Purchases: 100},
		5: {AssetID: 5, Purchases: 30},
	}
	window := map[int]*AssetDeltas{
		4: {AssetID: 4, Expended: 10},
	}

	summaries := BuildSummaries(opening, window)

	// Asset 5 had no transactions in the window; it is omitted, not
	// zero-filled.
	assert.Len(t, summaries, 1)
	assert.Equal(t, 4, summaries[0].AssetID)
}

func TestBuildSummariesOrdersByNameDeterministically(t *testing.T) {
	window := map[int]*AssetDeltas{
		3: {AssetID: 3, AssetName: "Truck"},
		1: {AssetID: 1, AssetName: "Ammo crate"},
		2: {AssetID: 2, AssetName: "Ammo crate"},
	}

	summaries := BuildSummaries(nil, window)

	assert.Equal(t, []int{1, 2, 3},
		[]int{summaries[0].AssetID, summaries[1].AssetID, summaries[2].AssetID})
}

func TestFoldTotalsReproducesPerAssetSums(t *testing.T) {
	opening := map[int]*AssetDeltas{
		4: {AssetID: 4, Purchases: 40},
	}
	window := map[int]*AssetDeltas{
		4: {AssetID: 4, Purchases: 10, TransfersIn: 5, Expended: 3, Assigned: 2},
		5: {AssetID: 5, Purchases: 20, TransfersOut: 4, Expended: 1},
	}

	summaries := BuildSummaries(opening, window)
	totals := FoldTotals(summaries)

	var netSum, closingSum int
	for _, s := range summaries {
		netSum += s.NetMovements
		closingSum += s.ClosingBalance
	}

	assert.Equal(t, netSum, totals.TotalNetMovements)
	assert.Equal(t, closingSum, totals.ClosingBalance)
	assert.Equal(t, 30, totals.TotalPurchases)
	assert.Equal(t, 5, totals.TotalTransfersIn)
	assert.Equal(t, 4, totals.TotalTransfersOut)
	assert.Equal(t, 2, totals.TotalAssigned)
	assert.Equal(t, 4, totals.TotalExpended)
}
