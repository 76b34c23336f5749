package movement

import (
	"fmt"
	"net/http"
	"time"

	"armory/internal/export"
	"armory/internal/filters"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type MovementHandler struct {
	Compiler *Compiler
}

func NewHandler(c *Compiler) *MovementHandler {
	return &MovementHandler{Compiler: c}
}

func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/movement", security.Authorize(roles.OpViewMovement), h.GetMovementLog)
	router.GET("/movement/export", security.Authorize(roles.OpViewMovement), h.ExportMovementLog)
}

func (h *MovementHandler) GetMovementLog(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, total, err := h.Compiler.Compile(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compile movement log", "details": err.Error()})
		return
	}
	if logs == nil {
		logs = []models.MovementLogEntry{}
	}

	pagination := filters.NewPagination(filter.Page, filter.Limit, total)
	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"page":       pagination.Page,
		"limit":      pagination.Limit,
		"total":      pagination.Total,
		"totalPages": pagination.TotalPages,
	})
}

// ExportMovementLog streams the whole filtered log as an XLSX workbook,
// ignoring pagination.
func (h *MovementHandler) ExportMovementLog(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.Page = 1
	filter.Limit = filters.MaxExportRows

	logs, _, err := h.Compiler.Compile(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compile movement log", "details": err.Error()})
		return
	}

	workbook, err := export.MovementWorkbook(logs)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build export file", "details": err.Error()})
		return
	}

	fileName := fmt.Sprintf("movement_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook.Bytes())
}
