package transfers

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

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) InsertTransferRecord(tx *goqu.TxDatabase, req models.TransferRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) ApplyTransferOut(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) ApplyTransferIn(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	args := m.Called(tx, baseID, assetID, quantity)
	return args.Error(0)
}

func TestPerformTransferRejectsSameBase(t *testing.T) {
	service := TransferService{}

	req := models.TransferRequest{
		FromBaseID: 4,
		ToBaseID:   4,
		Items:      []models.LineItemRequest{{AssetID: 1, Quantity: 5}},
	}

	_, err := service.PerformTransfer(req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestPerformTransferMovesBothSides(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockStockRepo := new(MockStockRepository)

	service := TransferService{
		tr:     mockTransferRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.TransferRequest{
		FromBaseID:   2,
		ToBaseID:     3,
		TransferDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		InvoiceNo:    "TR-77",
		Items: []models.LineItemRequest{
			{AssetID: 10, Quantity: 6},
		},
	}

	mockTransferRepo.On("InsertTransferRecord", mock.Anything, req).Return(55, nil).Once()
	mockStockRepo.On("ApplyTransferOut", mock.Anything, 2, 10, 6).Return(nil).Once()
	mockStockRepo.On("ApplyTransferIn", mock.Anything, 3, 10, 6).Return(nil).Once()

	transferID, err := service.PerformTransfer(req)

	assert.NoError(t, err)
	assert.Equal(t, 55, transferID)
	mockTransferRepo.AssertExpectations(t)
	mockStockRepo.AssertExpectations(t)
}

func TestPerformTransferStopsOnInsufficientStock(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockStockRepo := new(MockStockRepository)

	service := TransferService{
		tr:     mockTransferRepo,
		stocks: mockStockRepo,
		runTx:  stubTx,
	}

	req := models.TransferRequest{
		FromBaseID: 2,
		ToBaseID:   3,
		Items:      []models.LineItemRequest{{AssetID: 10, Quantity: 500}},
	}

	mockTransferRepo.On("InsertTransferRecord", mock.Anything, req).Return(56, nil).Once()
	mockStockRepo.On("ApplyTransferOut", mock.Anything, 2, 10, 500).
		Return(errors.New("insufficient stock for asset 10 at base 2")).Once()

	_, err := service.PerformTransfer(req)

	assert.Error(t, err)
	mockStockRepo.AssertNotCalled(t, "ApplyTransferIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
