package summary

import (
	"net/http"
	"time"

	"armory/internal/filters"
	"armory/internal/settings"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type deltaSource interface {
	GetDeltas(baseID int, from, to time.Time) (map[int]*AssetDeltas, error)
}

type SummaryHandler struct {
	Repository deltaSource
	RefCache   *settings.RefCache
}

func NewHandler(r deltaSource, cache *settings.RefCache) *SummaryHandler {
	return &SummaryHandler{Repository: r, RefCache: cache}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/summary", security.Authorize(roles.OpViewSummary), h.GetSummary)
}

// GetSummary computes the windowed ledger for one base. The opening balance
// is a point-in-time replay of everything before the window start, never a
// stored snapshot.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if baseID, scoped := security.GetBaseIDFromContext(c); scoped {
		filter.BaseID = baseID
	}
	if filter.BaseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No base selected"})
		return
	}

	base, ok := h.RefCache.Base(filter.BaseID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown base"})
		return
	}

	windowEnd := filter.DateTo
	if !windowEnd.IsZero() {
		// The date filter is inclusive per day; the replay cutoff is not.
		windowEnd = windowEnd.AddDate(0, 0, 1)
	}

	opening := map[int]*AssetDeltas{}
	if !filter.DateFrom.IsZero() {
		opening, err = h.Repository.GetDeltas(filter.BaseID, time.Time{}, filter.DateFrom)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to replay opening balance", "details": err.Error()})
			return
		}
	}

	window, err := h.Repository.GetDeltas(filter.BaseID, filter.DateFrom, windowEnd)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compute summary", "details": err.Error()})
		return
	}

	summaries := BuildSummaries(opening, window)

	c.JSON(http.StatusOK, gin.H{
		"summaries": summaries,
		"base":      base,
		"totals":    FoldTotals(summaries),
	})
}
