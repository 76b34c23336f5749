package expenditures

import (
	"testing"
	"time"

	custom_error "armory/pkg/errors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubTx runs the transactional body directly, without a database.
func stubTx(_ *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockExpenditureRepository struct {
	mock.Mock
}

func (m *MockExpenditureRepository) InsertExpenditureRecord(tx *goqu.TxDatabase, record models.Expenditure) (int, error) {
	args := m.Called(tx, record)
	return args.Int(0), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) GetAssignment(assignmentID int) (*models.Assignment, error) {
	args := m.Called(assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) MarkItemsExpended(tx *goqu.TxDatabase, assignmentID int, itemIDs []int) (int, error) {
	args := m.Called(tx, assignmentID, itemIDs)
	return args.Int(0), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) ApplyExpenditure(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) ApplyFulfillment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func newTestService(er *MockExpenditureRepository, ar *MockAssignmentRepository, sr *MockStockRepository) *ExpenditureService {
	return &ExpenditureService{
		er:          er,
		assignments: ar,
		stocks:      sr,
		runTx:       stubTx,
	}
}

func TestCreateExpenditureConsumesStock(t *testing.T) {
	mockExpendRepo := new(MockExpenditureRepository)
	mockStockRepo := new(MockStockRepository)

	service := newTestService(mockExpendRepo, nil, mockStockRepo)

	req := models.ExpenditureRequest{
		BaseID:     2,
		ExpendedBy: "Capt. Rivera",
		ExpendDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Items:      []models.LineItemRequest{{AssetID: 4, Quantity: 30}},
	}

	mockExpendRepo.On("InsertExpenditureRecord", mock.Anything, mock.MatchedBy(func(record models.Expenditure) bool {
		return record.BaseID == 2 && record.AssignmentID == nil && len(record.Items) == 1
	})).Return(91, nil).Once()
	mockStockRepo.On("ApplyExpenditure", mock.Anything, 2, 4, 30).Return(nil).Once()

	expenditureID, err := service.CreateExpenditure(req)

	assert.NoError(t, err)
	assert.Equal(t, 91, expenditureID)
	mockExpendRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestMarkAssignedAsExpendedFulfillsSelectedItems(t *testing.T) {
	mockExpendRepo := new(MockExpenditureRepository)
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := newTestService(mockExpendRepo, mockAssignRepo, mockStockRepo)

	assignment := &models.Assignment{
		ID:     12,
		BaseID: 1,
		Items: []models.AssignmentItem{
			{ID: 7, AssetID: 4, Quantity: 10, IsExpended: false},
			{ID: 8, AssetID: 5, Quantity: 2, IsExpended: false},
		},
	}

	req := models.FulfillmentRequest{
		ExpendedBy: "Sgt. Okafor",
		ExpendDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Items:      []int{7},
	}

	mockAssignRepo.On("GetAssignment", 12).Return(assignment, nil).Once()
	mockAssignRepo.On("MarkItemsExpended", mock.Anything, 12, []int{7}).Return(1, nil).Once()
	mockExpendRepo.On("InsertExpenditureRecord", mock.Anything, mock.MatchedBy(func(record models.Expenditure) bool {
		return record.BaseID == 1 &&
			record.AssignmentID != nil && *record.AssignmentID == 12 &&
			len(record.Items) == 1 && record.Items[0].AssetID == 4 && record.Items[0].Quantity == 10
	})).Return(92, nil).Once()
	mockStockRepo.On("ApplyFulfillment", mock.Anything, 1, 4, 10).Return(nil).Once()

	expenditureID, err := service.MarkAssignedAsExpended(12, req)

	assert.NoError(t, err)
	assert.Equal(t, 92, expenditureID)
	mockAssignRepo.AssertExpectations(t)
	mockExpendRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestMarkAssignedAsExpendedRejectsFullyExpendedAssignment(t *testing.T) {
	mockExpendRepo := new(MockExpenditureRepository)
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := newTestService(mockExpendRepo, mockAssignRepo, mockStockRepo)

	assignment := &models.Assignment{
		ID:     12,
		BaseID: 1,
		Items: []models.AssignmentItem{
			{ID: 7, AssetID: 4, Quantity: 10, IsExpended: true},
		},
	}

	mockAssignRepo.On("GetAssignment", 12).Return(assignment, nil).Once()

	_, err := service.MarkAssignedAsExpended(12, models.FulfillmentRequest{Items: []int{7}})

	assert.Error(t, err)
	assert.IsType(t, &custom_error.InvalidStateTransitionError{}, err)
	mockExpendRepo.AssertNotCalled(t, "InsertExpenditureRecord", mock.Anything, mock.Anything)
	mockStockRepo.AssertNotCalled(t, "ApplyFulfillment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAssignedAsExpendedRejectsItemOutsideAssignment(t *testing.T) {
	mockExpendRepo := new(MockExpenditureRepository)
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := newTestService(mockExpendRepo, mockAssignRepo, mockStockRepo)

	assignment := &models.Assignment{
		ID:     12,
		BaseID: 1,
		Items: []models.AssignmentItem{
			{ID: 7, AssetID: 4, Quantity: 10, IsExpended: false},
			{ID: 8, AssetID: 5, Quantity: 2, IsExpended: true},
		},
	}

	mockAssignRepo.On("GetAssignment", 12).Return(assignment, nil)

	// Item 8 is already expended, item 99 belongs to another assignment;
	// both selections are rejected the same way.
	for _, itemID := range []int{8, 99} {
		_, err := service.MarkAssignedAsExpended(12, models.FulfillmentRequest{Items: []int{itemID}})

		assert.Error(t, err)
		assert.IsType(t, &custom_error.InvalidStateTransitionError{}, err)
	}

	mockAssignRepo.AssertNotCalled(t, "MarkItemsExpended", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAssignedAsExpendedLosesRaceToConcurrentFulfillment(t *testing.T) {
	mockExpendRepo := new(MockExpenditureRepository)
	mockAssignRepo := new(MockAssignmentRepository)
	mockStockRepo := new(MockStockRepository)

	service := newTestService(mockExpendRepo, mockAssignRepo, mockStockRepo)

	assignment := &models.Assignment{
		ID:     12,
		BaseID: 1,
		Items: []models.AssignmentItem{
			{ID: 7, AssetID: 4, Quantity: 10, IsExpended: false},
		},
	}

	mockAssignRepo.On("GetAssignment", 12).Return(assignment, nil).Once()
	// Between the read and the guarded update someone else expended item 7.
	mockAssignRepo.On("MarkItemsExpended", mock.Anything, 12, []int{7}).Return(0, nil).Once()

	_, err := service.MarkAssignedAsExpended(12, models.FulfillmentRequest{Items: []int{7}})

	assert.Error(t, err)
	assert.IsType(t, &custom_error.InvalidStateTransitionError{}, err)
	mockExpendRepo.AssertNotCalled(t, "InsertExpenditureRecord", mock.Anything, mock.Anything)
	mockStockRepo.AssertNotCalled(t, "ApplyFulfillment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
