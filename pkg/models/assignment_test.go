package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentIsExpendedMatchesItemFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    []bool
		expended bool
	}{
		{"no items expended", []bool{false, false, false}, false},
		{"some items expended", []bool{true, false, true}, false},
		{"all items expended", []bool{true, true, true}, true},
		{"single expended item", []bool{true}, true},
		{"empty assignment", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{}
			for i, flag := range tt.flags {
				a.Items = append(a.Items, AssignmentItem{ID: i + 1, AssetID: 1, Quantity: 5, IsExpended: flag})
			}
			assert.Equal(t, tt.expended, a.IsExpended())
		})
	}
}

func TestAssignmentStatus(t *testing.T) {
	tests := []struct {
		name   string
		flags  []bool
		status AssignmentStatus
	}{
		{"active", []bool{false, false}, AssignmentActive},
		{"partially expended", []bool{true, false}, AssignmentPartiallyExpended},
		{"expended", []bool{true, true}, AssignmentExpended},
		{"no items", nil, AssignmentActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{}
			for i, flag := range tt.flags {
				a.Items = append(a.Items, AssignmentItem{ID: i + 1, AssetID: 2, Quantity: 1, IsExpended: flag})
			}
			assert.Equal(t, tt.status, a.Status())
		})
	}
}

func TestUnexpendedItems(t *testing.T) {
	a := Assignment{
		Items: []AssignmentItem{
			{ID: 1, AssetID: 1, Quantity: 3, IsExpended: true},
			{ID: 2, AssetID: 1, Quantity: 4, IsExpended: false},
			{ID: 3, AssetID: 2, Quantity: 5, IsExpended: false},
		},
	}

	remaining := a.UnexpendedItems()

	assert.Len(t, remaining, 2)
	assert.Equal(t, 2, remaining[0].ID)
	assert.Equal(t, 3, remaining[1].ID)
}

func TestStockConsistency(t *testing.T) {
	stock := InventoryStock{
		Quantity:       90,
		Purchased:      100,
		Expended:       10,
		TransferredIn:  20,
		TransferredOut: 20,
		Assigned:       15,
	}
	assert.True(t, stock.Consistent(), "assigned stock must stay counted in quantity")

	stock.Quantity = 75
	assert.False(t, stock.Consistent())
}
