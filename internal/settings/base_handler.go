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

type BaseHandler struct {
	Repository *BaseRepository
	RefCache   *RefCache
	AuditLog   *auditlog.Auditlog
}

func NewBaseHandler(r *BaseRepository, cache *RefCache, a *auditlog.Auditlog) *BaseHandler {
	return &BaseHandler{
		Repository: r,
		RefCache:   cache,
		AuditLog:   a,
	}
}

func (h *BaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings/bases/get", h.GetBases)
	router.POST("/settings/bases/create", security.Authorize(roles.OpManageBases), h.CreateBase)
	router.PUT("/settings/bases/update/:id", security.Authorize(roles.OpManageBases), h.UpdateBase)
	router.DELETE("/settings/bases/delete/:id", security.Authorize(roles.OpManageBases), h.RemoveBase)
}

func (h *BaseHandler) GetBases(c *gin.Context) {
	bases := h.RefCache.Bases()
	if bases == nil {
		bases = []models.Base{}
	}
	c.JSON(http.StatusOK, gin.H{"bases": bases})
}

func (h *BaseHandler) CreateBase(c *gin.Context) {
	var req models.BaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base := models.Base{
		Name:     req.Name,
		District: req.District,
		State:    req.State,
	}

	err := h.Repository.PersistBase(&base)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert base, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert base"})
		return
	}

	h.refreshCache()

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"name":     base.Name,
			"district": base.District,
			"msg":      "Register base",
		},
		&base,
	)

	c.JSON(http.StatusCreated, base)
}

func (h *BaseHandler) UpdateBase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid base ID"})
		return
	}

	var req models.BaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base, err := h.Repository.UpdateBase(id, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update base", "details": err.Error()})
		return
	}

	h.refreshCache()

	go h.AuditLog.Log("update", map[string]interface{}{"name": base.Name}, base)

	c.JSON(http.StatusOK, base)
}

func (h *BaseHandler) RemoveBase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid base ID"})
		return
	}

	err = h.Repository.RemoveBase(id)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete base", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete base", "details": err.Error()})
		return
	}

	h.refreshCache()

	c.JSON(http.StatusOK, gin.H{"message": "Base deleted successfully"})
}

func (h *BaseHandler) refreshCache() {
	if err := h.RefCache.Refresh(); err != nil {
		log.Println("Unable to refresh reference cache: ", err)
	}
}
