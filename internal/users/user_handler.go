package users

import (
	"net/http"
	"strconv"

	"armory/pkg/models"
	"armory/pkg/roles"
	"armory/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{
		Repository: r,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize(roles.OpManageUsers), h.RegisterUser)
	router.GET("/users", security.Authorize(roles.OpManageUsers), h.GetUserList)
	router.GET("/users/:id", h.GetUser)
	router.PATCH("/users/:id", security.Authorize(roles.OpManageUsers), h.UpdateUser)
	router.DELETE("/users/:id", security.Authorize(roles.OpManageUsers), h.DeleteUser)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + req.Role})
		return
	}
	if roles.Role(req.Role) != roles.Admin && req.BaseID == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Base-scoped roles require a base"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.Repository.PersistUser(req, hashedPassword); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create user",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users", "details": err.Error()})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser returns one account. Non-admins may only look up themselves.
func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !h.isSelfOrAdmin(c, userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req models.UserChanges
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user"})
		return
	}

	changes := goqu.Record{}
	if req.Fullname != nil && *req.Fullname != "" {
		changes["fullname"] = *req.Fullname
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 8 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		changes["password_hash"] = string(hashedPassword)
	}
	if req.Role != nil && *req.Role != user.Role {
		if !roles.Role(*req.Role).IsValid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + *req.Role})
			return
		}
		changes["role"] = *req.Role
	}
	if req.BaseID != nil {
		changes["base_id"] = *req.BaseID
	}

	if len(changes) == 0 {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.Repository.DeleteUser(userID); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to delete user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UsersHandler) isSelfOrAdmin(c *gin.Context, userID int) bool {
	if roleValue, ok := c.Get("role"); ok {
		if roleName, ok := roleValue.(string); ok && roles.Role(roleName) == roles.Admin {
			return true
		}
	}

	authValue, ok := c.Get("userID")
	if !ok {
		return false
	}
	// The token carries userID as a string claim.
	switch id := authValue.(type) {
	case string:
		authID, err := strconv.Atoi(id)
		return err == nil && authID == userID
	case float64:
		return int(id) == userID
	case int:
		return id == userID
	default:
		return false
	}
}
