package security

import (
	"fmt"
	"log"
	"os"
	"time"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Unable to load .env: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "password_hash", "role", "base_id").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"userID":   fmt.Sprintf("%d", user.ID),
		"role":     user.Role,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}
	if user.BaseID != nil {
		claims["baseID"] = float64(*user.BaseID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func GetUserIDFromToken(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", fmt.Errorf("no authenticated user in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("userID is not a string")
	}

	return id, nil
}

// GetBaseIDFromContext returns the base the authenticated user is scoped to,
// or false for unscoped (admin) users.
func GetBaseIDFromContext(c *gin.Context) (int, bool) {
	baseID, exists := c.Get("baseID")
	if !exists {
		return 0, false
	}

	id, ok := baseID.(float64)
	if !ok {
		return 0, false
	}

	return int(id), true
}
