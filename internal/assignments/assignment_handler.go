package assignments

import (
	"errors"
	"net/http"

	"armory/internal/filters"
	"armory/pkg/auditlog"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	Repository *AssignmentRepository
	Service    *AssignmentService
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *AssignmentRepository, s *AssignmentService, a *auditlog.Auditlog) *AssignmentHandler {
	return &AssignmentHandler{
		Repository: r,
		Service:    s,
		AuditLog:   a,
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assign", security.Authorize(roles.OpViewMovement), h.GetAssignments)
	router.POST("/assign/create", security.Authorize(roles.OpCreateAssignment), h.CreateAssignment)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignments, total, err := h.Repository.GetAssignmentsBy(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assignments", "details": err.Error()})
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	// Derived status rides along so clients never recompute the conjunction.
	type assignmentView struct {
		models.Assignment
		Status     models.AssignmentStatus `json:"status"`
		IsExpended bool                    `json:"is_expended"`
	}
	views := make([]assignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		views = append(views, assignmentView{
			Assignment: assignment,
			Status:     assignment.Status(),
			IsExpended: assignment.IsExpended(),
		})
	}

	pagination := filters.NewPagination(filter.Page, filter.Limit, total)
	c.JSON(http.StatusOK, gin.H{
		"assignments": views,
		"page":        pagination.Page,
		"limit":       pagination.Limit,
		"total":       pagination.Total,
		"totalPages":  pagination.TotalPages,
	})
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	assignmentID, err := h.Service.CreateAssignment(req)
	var insufficient *custom_error.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient unassigned stock", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create assignment", "details": err.Error()})
		return
	}

	assignment, err := h.Repository.GetAssignment(assignmentID)
	if err != nil || assignment == nil {
		c.JSON(http.StatusCreated, gin.H{"id": assignmentID})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"base_id":     assignment.BaseID,
			"assigned_to": assignment.AssignedTo,
			"items":       len(assignment.Items),
			"msg":         "Assets checked out for assignment",
		},
		assignment,
	)

	c.JSON(http.StatusCreated, assignment)
}
