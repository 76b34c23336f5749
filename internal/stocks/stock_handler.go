package stocks

import (
	"net/http"

	"armory/internal/filters"
	"armory/internal/repository"
	"armory/internal/settings"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	Repository      *repository.Repository
	StockRepository *StockRepository
	RefCache        *settings.RefCache
}

func NewStockHandler(r *repository.Repository, sr *StockRepository, cache *settings.RefCache) *StockHandler {
	return &StockHandler{
		Repository:      r,
		StockRepository: sr,
		RefCache:        cache,
	}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stocks/my", security.Authorize(roles.OpViewStock), h.GetMyStocks)
}

// GetMyStocks lists the caller's base inventory. Admins may inspect any
// base through the base filter; scoped users always see their own.
func (h *StockHandler) GetMyStocks(c *gin.Context) {
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

	stocks, err := h.StockRepository.GetStocksBy(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list stocks", "details": err.Error()})
		return
	}
	if stocks == nil {
		stocks = []models.InventoryStock{}
	}

	base, ok := h.RefCache.Base(filter.BaseID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown base"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": stocks, "base": base})
}
