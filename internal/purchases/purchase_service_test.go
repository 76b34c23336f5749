package purchases

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

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) InsertPurchaseRecord(tx *goqu.TxDatabase, req models.PurchaseRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseRepository) ReplacePurchaseRecord(tx *goqu.TxDatabase, purchaseID int, req models.PurchaseRequest) error {
	args := m.Called(tx, purchaseID, req)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetPurchaseItems(purchaseID int) ([]models.LineItem, error) {
	args := m.Called(purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LineItem), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) ApplyPurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) ReversePurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func TestCreatePurchaseCreditsStock(t *testing.T) {
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockStockRepo := new(MockStockRepository)

	service := PurchaseService{
		pr:     mockPurchaseRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.PurchaseRequest{
		BaseID:       1,
		PurchaseDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		InvoiceNo:    "INV-100",
		Items: []models.LineItemRequest{
			{AssetID: 4, Quantity: 100},
			{AssetID: 5, Quantity: 12},
		},
	}

	mockPurchaseRepo.On("InsertPurchaseRecord", mock.Anything, req).Return(31, nil).Once()
	mockStockRepo.On("ApplyPurchase", mock.Anything, 1, 4, 100).Return(nil).Once()
	mockStockRepo.On("ApplyPurchase", mock.Anything, 1, 5, 12).Return(nil).Once()

	purchaseID, err := service.CreatePurchase(req)

	assert.NoError(t, err)
	assert.Equal(t, 31, purchaseID)
	mockPurchaseRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestUpdatePurchaseBacksOutPreviousItemsFirst(t *testing.T) {
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockStockRepo := new(MockStockRepository)

	service := PurchaseService{
		pr:     mockPurchaseRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.PurchaseRequest{
		BaseID:    2,
		InvoiceNo: "INV-101",
		Items:     []models.LineItemRequest{{AssetID: 4, Quantity: 80}},
	}

	mockPurchaseRepo.On("GetPurchaseItems", 31).
		Return([]models.LineItem{{AssetID: 4, Quantity: 100}}, nil).Once()
	mockStockRepo.On("ReversePurchase", mock.Anything, 1, 4, 100).Return(nil).Once()
	mockPurchaseRepo.On("ReplacePurchaseRecord", mock.Anything, 31, req).Return(nil).Once()
	mockStockRepo.On("ApplyPurchase", mock.Anything, 2, 4, 80).Return(nil).Once()

	err := service.UpdatePurchase(31, 1, req)

	assert.NoError(t, err)
	mockPurchaseRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestUpdatePurchaseFailsWhenStockAlreadyMovedOn(t *testing.T) {
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockStockRepo := new(MockStockRepository)

	service := PurchaseService{
		pr:     mockPurchaseRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	mockPurchaseRepo.On("GetPurchaseItems", 31).
		Return([]models.LineItem{{AssetID: 4, Quantity: 100}}, nil).Once()
	mockStockRepo.On("ReversePurchase", mock.Anything, 1, 4, 100).
		Return(errors.New("insufficient stock for asset 4 at base 1")).Once()

	err := service.UpdatePurchase(31, 1, models.PurchaseRequest{
		BaseID: 1,
		Items:  []models.LineItemRequest{{AssetID: 4, Quantity: 50}},
	})

	assert.Error(t, err)
	mockPurchaseRepo.AssertNotCalled(t, "ReplacePurchaseRecord", mock.Anything, mock.Anything, mock.Anything)
	mockStockRepo.AssertNotCalled(t, "ApplyPurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePurchaseRejectsUnknownPurchase(t *testing.T) {
	mockPurchaseRepo := new(MockPurchaseRepository)

	service := PurchaseService{
		pr:    mockPurchaseRepo,
		runTx: stubTx,
	}

	mockPurchaseRepo.On("GetPurchaseItems", 99).Return([]models.LineItem{}, nil).Once()

	err := service.UpdatePurchase(99, 1, models.PurchaseRequest{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no purchase found")
}
