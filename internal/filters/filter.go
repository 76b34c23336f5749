package filters

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxExportRows caps file exports, which bypass the page size limit.
	MaxExportRows = 10000

	dateLayout = "2006-01-02"
)

// FilterState holds every UI-selectable predicate. The zero value of each
// field means "not filtered"; sentinel strings like "all" are treated the
// same and never forwarded.
type FilterState struct {
	BaseID     int
	AssetID    int
	Category   models.Category
	ActionType models.ActionType
	Search     string
	DateFrom   time.Time
	DateTo     time.Time
	SortDesc   bool
	Page       int
	Limit      int
}

// FromQuery binds a filter state from the request's query string, rejecting
// malformed dates and unknown enum values. The parsed state is already
// normalized.
func FromQuery(c *gin.Context) (FilterState, error) {
	f := FilterState{SortDesc: true}

	if v := c.Query("base"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid base id: %s", v)
		}
		f.BaseID = id
	}
	if v := c.Query("asset"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid asset id: %s", v)
		}
		f.AssetID = id
	}
	if v := c.Query("category"); v != "" && v != "all" {
		category, err := models.NewCategory(v)
		if err != nil {
			return f, err
		}
		f.Category = category
	}
	if v := c.Query("action_type"); v != "" && v != "all" {
		action, err := models.NewActionType(v)
		if err != nil {
			return f, err
		}
		f.ActionType = action
	}
	f.Search = c.Query("search")

	if v := c.Query("date_from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid date_from: %s", v)
		}
		f.DateFrom = from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid date_to: %s", v)
		}
		f.DateTo = to
	}

	if v := c.Query("sort"); v == "asc" {
		f.SortDesc = false
	}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return f, fmt.Errorf("invalid page: %s", v)
		}
		f.Page = page
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return f, fmt.Errorf("invalid limit: %s", v)
		}
		f.Limit = limit
	}

	f.Normalize()
	return f, nil
}

// SetDateFrom moves the window start. A start past the current end clears
// the end instead of producing an inverted range.
func (f *FilterState) SetDateFrom(from time.Time) {
	f.DateFrom = from
	if !f.DateTo.IsZero() && from.After(f.DateTo) {
		f.DateTo = time.Time{}
	}
}

// SetDateTo moves the window end, refusing values before the current start.
func (f *FilterState) SetDateTo(to time.Time) error {
	if !f.DateFrom.IsZero() && to.Before(f.DateFrom) {
		return fmt.Errorf("date_to %s precedes date_from %s",
			to.Format(dateLayout), f.DateFrom.Format(dateLayout))
	}
	f.DateTo = to
	return nil
}

// Normalize repairs an inverted date range and clamps pagination. Inverted
// ranges keep the start and drop the end, matching SetDateFrom.
func (f *FilterState) Normalize() {
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateFrom.After(f.DateTo) {
		f.DateTo = time.Time{}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

// BuildConditions implements repository.QueryBuilder. Unset fields produce
// no condition at all. Date bounds are inclusive; the upper bound covers the
// whole day.
func (f *FilterState) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}

	set := func(key string, value interface{}) {
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		conditions[key] = value
	}

	// Both date bounds usually alias to the same column; merge their
	// operators instead of letting one overwrite the other.
	setOp := func(key string, op goqu.Op) {
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		if existing, ok := conditions[key].(goqu.Op); ok {
			for k, v := range op {
				existing[k] = v
			}
			return
		}
		conditions[key] = op
	}

	if f.BaseID != 0 {
		set("base_id", f.BaseID)
	}
	if f.AssetID != 0 {
		set("asset_id", f.AssetID)
	}
	if f.Category != "" {
		set("category", f.Category.String())
	}
	if f.ActionType != "" {
		set("action_type", f.ActionType.String())
	}
	if !f.DateFrom.IsZero() {
		setOp("date_from", goqu.Op{"gte": f.DateFrom})
	}
	if !f.DateTo.IsZero() {
		setOp("date_to", goqu.Op{"lt": f.DateTo.AddDate(0, 0, 1)})
	}

	return conditions
}

// Canonical serializes the filter state deterministically: identical states
// always yield byte-identical strings. url.Values.Encode sorts by key, so
// the output is stable and cacheable.
func (f *FilterState) Canonical() string {
	normalized := *f
	normalized.Normalize()

	values := url.Values{}
	if normalized.BaseID != 0 {
		values.Set("base", strconv.Itoa(normalized.BaseID))
	}
	if normalized.AssetID != 0 {
		values.Set("asset", strconv.Itoa(normalized.AssetID))
	}
	if normalized.Category != "" {
		values.Set("category", normalized.Category.String())
	}
	if normalized.ActionType != "" {
		values.Set("action_type", normalized.ActionType.String())
	}
	if normalized.Search != "" {
		values.Set("search", normalized.Search)
	}
	if !normalized.DateFrom.IsZero() {
		values.Set("date_from", normalized.DateFrom.Format(dateLayout))
	}
	if !normalized.DateTo.IsZero() {
		values.Set("date_to", normalized.DateTo.Format(dateLayout))
	}
	if !normalized.SortDesc {
		values.Set("sort", "asc")
	}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("limit", strconv.Itoa(normalized.Limit))

	return values.Encode()
}

// Offset converts the 1-based page to a row offset.
func (f *FilterState) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Pagination is the shared list-response envelope. Page is 1-based.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
