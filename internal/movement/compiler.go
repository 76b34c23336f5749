package movement

import (
	"sort"
	"strings"
	"time"

	"armory/internal/filters"
	"armory/pkg/models"
)

// entrySource pulls the date-bounded movement projections of one transaction
// kind each. The compiler collects them in a fixed kind order so repeated
// queries see identical tie ordering.
type entrySource interface {
	GetPurchaseMovements(from, to time.Time) ([]models.MovementLogEntry, error)
	GetTransferMovements(from, to time.Time) ([]models.MovementLogEntry, error)
	GetAssignmentMovements(from, to time.Time) ([]models.MovementLogEntry, error)
	GetExpenditureMovements(from, to time.Time) ([]models.MovementLogEntry, error)
}

type Compiler struct {
	source entrySource
}

func NewCompiler(source entrySource) *Compiler {
	return &Compiler{source: source}
}

// Compile unifies the four transaction kinds into one filtered, ordered log
// and returns the requested page plus the total match count. An empty page is
// a valid result, not an error.
func (c *Compiler) Compile(filter *filters.FilterState) ([]models.MovementLogEntry, int, error) {
	collect := []func(from, to time.Time) ([]models.MovementLogEntry, error){
		c.source.GetPurchaseMovements,
		c.source.GetTransferMovements,
		c.source.GetAssignmentMovements,
		c.source.GetExpenditureMovements,
	}

	var entries []models.MovementLogEntry
	for _, fetch := range collect {
		kind, err := fetch(filter.DateFrom, filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, kind...)
	}

	filtered := filterEntries(entries, filter)
	sortEntries(filtered, filter.SortDesc)

	total := len(filtered)
	return paginate(filtered, filter), total, nil
}

// filterEntries applies every active predicate conjunctively. The date window
// is already enforced by the repository queries.
func filterEntries(entries []models.MovementLogEntry, filter *filters.FilterState) []models.MovementLogEntry {
	matched := make([]models.MovementLogEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.ActionType != "" && entry.ActionType != filter.ActionType {
			continue
		}
		if filter.BaseID != 0 && entry.BaseID != filter.BaseID {
			continue
		}
		if filter.AssetID != 0 && !touchesAsset(entry, filter.AssetID) {
			continue
		}
		if filter.Search != "" && !matchesSearch(entry, filter.Search) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

func touchesAsset(entry models.MovementLogEntry, assetID int) bool {
	for _, item := range entry.Items {
		if item.AssetID == assetID {
			return true
		}
	}
	return false
}

func matchesSearch(entry models.MovementLogEntry, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(entry.PerformedBy), needle) ||
		strings.Contains(strings.ToLower(entry.Remarks), needle) ||
		strings.Contains(strings.ToLower(entry.BaseName), needle) {
		return true
	}
	for _, item := range entry.Items {
		if strings.Contains(strings.ToLower(item.AssetName), needle) {
			return true
		}
	}
	return false
}

// sortEntries orders by date only, with a stable sort: same-date entries keep
// the fixed collection order, so two queries over the same data never flicker.
func sortEntries(entries []models.MovementLogEntry, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].Date.Before(entries[j].Date)
	})
}

func paginate(entries []models.MovementLogEntry, filter *filters.FilterState) []models.MovementLogEntry {
	start := filter.Offset()
	if start >= len(entries) {
		return []models.MovementLogEntry{}
	}
	end := start + filter.Limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
