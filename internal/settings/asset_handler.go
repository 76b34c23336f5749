package settings

import (
	"log"
	"net/http"
	"strconv"

	"armory/pkg/auditlog"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	Repository *AssetRepository
	RefCache   *RefCache
	AuditLog   *auditlog.Auditlog
}

func NewAssetHandler(r *AssetRepository, cache *RefCache, a *auditlog.Auditlog) *AssetHandler {
	return &AssetHandler{
		Repository: r,
		RefCache:   cache,
		AuditLog:   a,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings/assets/get", h.GetAssets)
	router.POST("/settings/assets/create", security.Authorize(roles.OpManageAssets), h.CreateAsset)
	router.PUT("/settings/assets/update/:id", security.Authorize(roles.OpManageAssets), h.UpdateAsset)
	router.DELETE("/settings/assets/delete/:id", security.Authorize(roles.OpManageAssets), h.RemoveAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	assets := h.RefCache.Assets()
	if assets == nil {
		assets = []models.Asset{}
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	category, err := models.NewCategory(req.Category)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset := models.Asset{
		Name:        req.Name,
		Category:    category,
		Unit:        req.Unit,
		Description: req.Description,
	}

	err = h.Repository.PersistAsset(&asset)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert asset, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert asset"})
		return
	}

	h.refreshCache()

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"name":     asset.Name,
			"category": asset.Category.String(),
			"msg":      "Register asset type",
		},
		&asset,
	)

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if _, err := models.NewCategory(req.Category); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.Repository.UpdateAsset(id, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update asset", "details": err.Error()})
		return
	}

	h.refreshCache()

	go h.AuditLog.Log("update", map[string]interface{}{"name": asset.Name}, asset)

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	err = h.Repository.RemoveAsset(id)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete asset", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete asset", "details": err.Error()})
		return
	}

	h.refreshCache()

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func (h *AssetHandler) refreshCache() {
	if err := h.RefCache.Refresh(); err != nil {
		log.Println("Unable to refresh reference cache: ", err)
	}
}
