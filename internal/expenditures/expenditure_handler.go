package expenditures

import (
	"errors"
	"net/http"
	"strconv"

	"armory/internal/filters"
	"armory/pkg/auditlog"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type ExpenditureHandler struct {
	Repository *ExpenditureRepository
	Service    *ExpenditureService
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *ExpenditureRepository, s *ExpenditureService, a *auditlog.Auditlog) *ExpenditureHandler {
	return &ExpenditureHandler{
		Repository: r,
		Service:    s,
		AuditLog:   a,
	}
}

func (h *ExpenditureHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/expend", security.Authorize(roles.OpViewMovement), h.GetExpenditures)
	router.POST("/expend/create", security.Authorize(roles.OpCreateExpenditure), h.CreateExpenditure)
	router.POST("/expend/markAssignedAsExpended/:assignmentId", security.Authorize(roles.OpCreateExpenditure), h.MarkAssignedAsExpended)
}

func (h *ExpenditureHandler) GetExpenditures(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenditures, total, err := h.Repository.GetExpendituresBy(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list expenditures", "details": err.Error()})
		return
	}
	if expenditures == nil {
		expenditures = []models.Expenditure{}
	}

	pagination := filters.NewPagination(filter.Page, filter.Limit, total)
	c.JSON(http.StatusOK, gin.H{
		"expenditures": expenditures,
		"page":         pagination.Page,
		"limit":        pagination.Limit,
		"total":        pagination.Total,
		"totalPages":   pagination.TotalPages,
	})
}

func (h *ExpenditureHandler) CreateExpenditure(c *gin.Context) {
	var req models.ExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	expenditureID, err := h.Service.CreateExpenditure(req)
	var insufficient *custom_error.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient unassigned stock", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create expenditure", "details": err.Error()})
		return
	}

	h.respondWithExpenditure(c, expenditureID, "Stock expended directly")
}

func (h *ExpenditureHandler) MarkAssignedAsExpended(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("assignmentId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var req models.FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	expenditureID, err := h.Service.MarkAssignedAsExpended(assignmentID, req)
	var invalidState *custom_error.InvalidStateTransitionError
	var insufficient *custom_error.InsufficientStockError
	switch {
	case errors.As(err, &invalidState):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Assignment cannot be expended", "details": err.Error()})
		return
	case errors.As(err, &insufficient):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock to fulfill assignment", "details": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to expend assignment", "details": err.Error()})
		return
	}

	h.respondWithExpenditure(c, expenditureID, "Assignment items expended")
}

func (h *ExpenditureHandler) respondWithExpenditure(c *gin.Context, expenditureID int, msg string) {
	expenditure, err := h.Repository.GetExpenditure(expenditureID)
	if err != nil || expenditure == nil {
		c.JSON(http.StatusCreated, gin.H{"id": expenditureID})
		return
	}

	go h.AuditLog.Log(
		"expenditure",
		map[string]interface{}{
			"base_id": expenditure.BaseID,
			"items":   len(expenditure.Items),
			"msg":     msg,
		},
		expenditure,
	)

	c.JSON(http.StatusCreated, expenditure)
}
