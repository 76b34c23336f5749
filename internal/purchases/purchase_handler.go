package purchases

import (
	"errors"
	"log"
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

type PurchaseHandler struct {
	Repository *PurchaseRepository
	Service    *PurchaseService
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *PurchaseRepository, s *PurchaseService, a *auditlog.Auditlog) *PurchaseHandler {
	return &PurchaseHandler{
		Repository: r,
		Service:    s,
		AuditLog:   a,
	}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/purchase", security.Authorize(roles.OpViewMovement), h.GetPurchases)
	router.POST("/purchase/create", security.Authorize(roles.OpCreatePurchase), h.CreatePurchase)
	router.PUT("/purchase/update/:id", security.Authorize(roles.OpEditPurchase), h.UpdatePurchase)
}

func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	filter, err := filters.FromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchases, total, err := h.Repository.GetPurchasesBy(&filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list purchases", "details": err.Error()})
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}

	pagination := filters.NewPagination(filter.Page, filter.Limit, total)
	c.JSON(http.StatusOK, gin.H{
		"purchases":  purchases,
		"page":       pagination.Page,
		"limit":      pagination.Limit,
		"total":      pagination.Total,
		"totalPages": pagination.TotalPages,
	})
}

func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	purchaseID, err := h.Service.CreatePurchase(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create purchase", "details": err.Error()})
		return
	}

	purchase, err := h.Repository.GetPurchase(purchaseID)
	if err != nil || purchase == nil {
		log.Println("Error re-reading created purchase: ", err)
		c.JSON(http.StatusCreated, gin.H{"id": purchaseID})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"base_id":    purchase.BaseID,
			"invoice_no": purchase.InvoiceNo,
			"items":      len(purchase.Items),
			"msg":        "Purchase received into stock",
		},
		purchase,
	)

	c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) UpdatePurchase(c *gin.Context) {
	purchaseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	existing, err := h.Repository.GetPurchase(purchaseID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load purchase", "details": err.Error()})
		return
	}
	if existing == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No purchase with given ID"})
		return
	}

	err = h.Service.UpdatePurchase(purchaseID, existing.BaseID, req)
	var insufficient *custom_error.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Purchased stock already moved on, edit rejected", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update purchase", "details": err.Error()})
		return
	}

	purchase, err := h.Repository.GetPurchase(purchaseID)
	if err != nil || purchase == nil {
		c.JSON(http.StatusOK, gin.H{"id": purchaseID})
		return
	}

	go h.AuditLog.Log("update", map[string]interface{}{"invoice_no": purchase.InvoiceNo}, purchase)

	c.JSON(http.StatusOK, purchase)
}
