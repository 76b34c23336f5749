package assignments

import (
	"errors"
	"testing"
	"time"

	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubTx runs the transactional body directly, without a database.
func stubTx(_ *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) InsertAssignmentRecord(tx *goqu.TxDatabase, req models.AssignmentRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) ApplyAssignment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func TestCreateAssignmentReservesStock(t *testing.T) {
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := AssignmentService{
		ar:     mockAssignRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.AssignmentRequest{
		BaseID:     1,
		AssignedTo: "Sgt. Okafor",
		AssignDate: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Items:      []models.LineItemRequest{{AssetID: 4, Quantity: 10}},
	}

	mockAssignRepo.On("InsertAssignmentRecord", mock.Anything, req).Return(12, nil).Once()
	mockStockRepo.On("ApplyAssignment", mock.Anything, 1, 4, 10).Return(nil).Once()

	assignmentID, err := service.CreateAssignment(req)

	assert.NoError(t, err)
	assert.Equal(t, 12, assignmentID)
	mockAssignRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestCreateAssignmentStopsWhenUnassignedStockIsShort(t *testing.T) {
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := AssignmentService{
		ar:     mockAssignRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.AssignmentRequest{
		BaseID:     1,
		AssignedTo: "Sgt. Okafor",
		Items: []models.LineItemRequest{
			{AssetID: 4, Quantity: 10},
			{AssetID: 5, Quantity: 9000},
		},
	}

	mockAssignRepo.On("InsertAssignmentRecord", mock.Anything, req).Return(13, nil).Once()
	mockStockRepo.On("ApplyAssignment", mock.Anything, 1, 4, 10).Return(nil).Once()
	mockStockRepo.On("ApplyAssignment", mock.Anything, 1, 5, 9000).
		Return(errors.New("insufficient stock for asset 5 at base 1")).Once()

	_, err := service.CreateAssignment(req)

	assert.Error(t, err)
	mockStockRepo.AssertExpectations(t)
}
