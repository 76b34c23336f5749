package movement

import (
	"testing"
	"time"

	"armory/internal/filters"
	"armory/pkg/models"

	"github.com/stretchr/testify/assert"
)

// stubSource returns canned entries per kind; the fetch order of the compiler
// is the creation order the stable sort must preserve.
type stubSource struct {
	purchases    []models.MovementLogEntry
	transfers    []models.MovementLogEntry
	assignments  []models.MovementLogEntry
	expenditures []models.MovementLogEntry
}

func (s *stubSource) GetPurchaseMovements(_, _ time.Time) ([]models.MovementLogEntry, error) {
	return s.purchases, nil
}

func (s *stubSource) GetTransferMovements(_, _ time.Time) ([]models.MovementLogEntry, error) {
	return s.transfers, nil
}

func (s *stubSource) GetAssignmentMovements(_, _ time.Time) ([]models.MovementLogEntry, error) {
	return s.assignments, nil
}

func (s *stubSource) GetExpenditureMovements(_, _ time.Time) ([]models.MovementLogEntry, error) {
	return s.expenditures, nil
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func entry(seq int, date time.Time, action models.ActionType, baseID int, assetID int) models.MovementLogEntry {
	return models.MovementLogEntry{
		Seq:        seq,
		Date:       date,
		ActionType: action,
		BaseID:     baseID,
		Items:      []models.LineItem{{AssetID: assetID, Quantity: 1}},
	}
}

func TestCompileOrdersByDateDescending(t *testing.T) {
	source := &stubSource{
		purchases: []models.MovementLogEntry{
			entry(1, day(1), models.ActionPurchase, 1, 4),
			entry(2, day(5), models.ActionPurchase, 1, 4),
		},
		expenditures: []models.MovementLogEntry{
			entry(1, day(3), models.ActionExpenditure, 1, 4),
		},
	}
	compiler := NewCompiler(source)

	filter := filters.FilterState{SortDesc: true}
	filter.Normalize()

	logs, total, err := compiler.Compile(&filter)

	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []time.Time{day(5), day(3), day(1)},
		[]time.Time{logs[0].Date, logs[1].Date, logs[2].Date})
}

func TestCompileBreaksDateTiesStably(t *testing.T) {
	source := &stubSource{
		purchases: []models.MovementLogEntry{
			entry(10, day(2), models.ActionPurchase, 1, 4),
			entry(11, day(2), models.ActionPurchase, 1, 5),
		},
		transfers: []models.MovementLogEntry{
			entry(3, day(2), models.ActionTransfer, 1, 4),
		},
	}
	compiler := NewCompiler(source)

	filter := filters.FilterState{SortDesc: true}
	filter.Normalize()

	first, _, err := compiler.Compile(&filter)
	assert.NoError(t, err)

	// Same-date entries keep the fixed collection order on every query.
	for i := 0; i < 10; i++ {
		again, _, err := compiler.Compile(&filter)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, models.ActionPurchase, first[0].ActionType)
	assert.Equal(t, 10, first[0].Seq)
	assert.Equal(t, 11, first[1].Seq)
	assert.Equal(t, models.ActionTransfer, first[2].ActionType)
}

func TestCompileFiltersConjunctively(t *testing.T) {
	source := &stubSource{
		purchases: []models.MovementLogEntry{
			entry(1, day(1), models.ActionPurchase, 1, 4),
			entry(2, day(2), models.ActionPurchase, 2, 4),
		},
		expenditures: []models.MovementLogEntry{
			entry(1, day(2), models.ActionExpenditure, 1, 4),
			entry(2, day(2), models.ActionExpenditure, 1, 5),
		},
	}
	compiler := NewCompiler(source)

	filter := filters.FilterState{
		BaseID:     1,
		AssetID:    4,
		ActionType: models.ActionExpenditure,
		SortDesc:   true,
	}
	filter.Normalize()

	logs, total, err := compiler.Compile(&filter)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.ActionExpenditure, logs[0].ActionType)
	assert.Equal(t, 1, logs[0].BaseID)
}

func TestCompileEmptyResultIsValid(t *testing.T) {
	compiler := NewCompiler(&stubSource{})

	filter := filters.FilterState{BaseID: 99}
	filter.Normalize()

	logs, total, err := compiler.Compile(&filter)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, logs)
}

func TestCompilePaginatesAfterFiltering(t *testing.T) {
	var purchases []models.MovementLogEntry
	for i := 1; i <= 25; i++ {
		purchases = append(purchases, entry(i, day(i), models.ActionPurchase, 1, 4))
	}
	compiler := NewCompiler(&stubSource{purchases: purchases})

	filter := filters.FilterState{SortDesc: true, Page: 3, Limit: 10}
	filter.Normalize()

	logs, total, err := compiler.Compile(&filter)

	assert.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, logs, 5)
	assert.Equal(t, day(5), logs[0].Date)
	assert.Equal(t, day(1), logs[4].Date)
}
