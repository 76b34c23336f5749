package transfers

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

type TransferHandler struct {
	Repository *TransferRepository
	Service    *TransferService
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *TransferRepository, s *TransferService, a *auditlog.Auditlog) *TransferHandler {
	return &TransferHandler{
		Repository: r,
		Service:    s,
		AuditLog:   a,
	}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/transfers", security.Authorize(roles.OpViewMovement), h.GetTransfers)
	router.POST("/transfers/create", security.Authorize(roles.OpCreateTransfer), h.CreateTransfer)
}

func (h *TransferHandler) GetTransfers(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transfers, total, err := h.Repository.GetTransfersBy(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list transfers", "details": err.Error()})
		return
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}

	pagination := filters.NewPagination(filter.Page, filter.Limit, total)
	c.JSON(http.StatusOK, gin.H{
		"transfers":  transfers,
		"page":       pagination.Page,
		"limit":      pagination.Limit,
		"total":      pagination.Total,
		"totalPages": pagination.TotalPages,
	})
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.FromBaseID == req.ToBaseID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot transfer a base to itself"})
		return
	}

	transferID, err := h.Service.PerformTransfer(req)
	var insufficient *custom_error.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock at source base", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create transfer", "details": err.Error()})
		return
	}

	transfer, err := h.Repository.GetTransfer(transferID)
	if err != nil || transfer == nil {
		c.JSON(http.StatusCreated, gin.H{"id": transferID})
		return
	}

	go h.AuditLog.Log(
		"transfer",
		map[string]interface{}{
			"from_base_id": transfer.FromBaseID,
			"to_base_id":   transfer.ToBaseID,
			"items":        len(transfer.Items),
			"msg":          "Stock moved between bases",
		},
		transfer,
	)

	c.JSON(http.StatusCreated, transfer)
}
