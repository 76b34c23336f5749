package purchases

import (
	"fmt"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type purchaseStore interface {
	InsertPurchaseRecord(tx *goqu.TxDatabase, req models.PurchaseRequest) (int, error)
	ReplacePurchaseRecord(tx *goqu.TxDatabase, purchaseID int, req models.PurchaseRequest) error
	GetPurchaseItems(purchaseID int) ([]models.LineItem, error)
}

type stockMutator interface {
	ApplyPurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
	ReversePurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

type PurchaseService struct {
	r      *repository.Repository
	pr     purchaseStore
	stocks stockMutator
	runTx  func(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, pr purchaseStore, stocks stockMutator) *PurchaseService {
	return &PurchaseService{r: r, pr: pr, stocks: stocks, runTx: repository.WithTransaction}
}

// CreatePurchase records the purchase and credits stock for every line item
// in one transaction.
func (s *PurchaseService) CreatePurchase(req models.PurchaseRequest) (int, error) {
	var purchaseID int

	err := s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if purchaseID, err = s.pr.InsertPurchaseRecord(tx, req); err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := s.stocks.ApplyPurchase(tx, req.BaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return purchaseID, nil
}

// UpdatePurchase edits a purchase pre-settlement: the previous line items
// are backed out of stock before the new ones are credited. Quantity that
// has already moved on blocks the reversal and fails the whole edit.
func (s *PurchaseService) UpdatePurchase(purchaseID, previousBaseID int, req models.PurchaseRequest) error {
	previousItems, err := s.pr.GetPurchaseItems(purchaseID)
	if err != nil {
		return err
	}
	if len(previousItems) == 0 {
		return fmt.Errorf("no purchase found with id: %d", purchaseID)
	}

	return s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, item := range previousItems {
			if err := s.stocks.ReversePurchase(tx, previousBaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.pr.ReplacePurchaseRecord(tx, purchaseID, req); err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := s.stocks.ApplyPurchase(tx, req.BaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
}
