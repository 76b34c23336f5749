package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, record goqu.Record) error {
	args := m.Called(id, record)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupTestContext(body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	return c, recorder
}

func TestRegisterUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	baseID := 2
	req := models.CreateUserRequest{
		Username: "jmance",
		Fullname: "J. Mance",
		Password: "hunter2hunter2",
		Role:     "commander",
		BaseID:   &baseID,
	}

	mockRepo.On("PersistUser", req, mock.MatchedBy(func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, []byte("hunter2hunter2")) == nil
	})).Return(nil).Once()

	c, recorder := setupTestContext(req)
	handler.RegisterUser(c)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	baseID := 2
	c, recorder := setupTestContext(models.CreateUserRequest{
		Username: "jmance",
		Fullname: "J. Mance",
		Password: "hunter2hunter2",
		Role:     "quartermaster",
		BaseID:   &baseID,
	})
	handler.RegisterUser(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestRegisterUserRequiresBaseForScopedRoles(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	c, recorder := setupTestContext(models.CreateUserRequest{
		Username: "jmance",
		Fullname: "J. Mance",
		Password: "hunter2hunter2",
		Role:     "logistics",
	})
	handler.RegisterUser(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestGetUserAllowsSelf(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUser", 7).Return(&models.User{ID: 7, Username: "jmance", Role: "logistics"}, nil).Once()

	c, recorder := setupTestContext(nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Set("userID", "7")
	c.Set("role", "logistics")

	handler.GetUser(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetUserForbidsOtherAccounts(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	c, recorder := setupTestContext(nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}
	c.Set("userID", "7")
	c.Set("role", "logistics")

	handler.GetUser(c)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	mockRepo.AssertNotCalled(t, "GetUser", mock.Anything)
}

func TestUpdateUserAppliesOnlyChangedFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	role := "commander"
	existing := &models.User{ID: 7, Username: "jmance", Role: "logistics"}
	updated := &models.User{ID: 7, Username: "jmance", Role: role}

	mockRepo.On("GetUser", 7).Return(existing, nil).Once()
	mockRepo.On("UpdateUser", 7, goqu.Record{"role": role}).Return(nil).Once()
	mockRepo.On("GetUser", 7).Return(updated, nil).Once()

	c, recorder := setupTestContext(models.UserChanges{Role: &role})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUserWithoutChangesIsANoOp(t *testing.T) {
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	existing := &models.User{ID: 7, Username: "jmance", Role: "logistics"}
	mockRepo.On("GetUser", 7).Return(existing, nil).Once()

	c, recorder := setupTestContext(models.UserChanges{})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	mockRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}
