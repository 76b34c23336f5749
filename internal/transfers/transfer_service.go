package transfers

import (
	"fmt"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type transferStore interface {
	InsertTransferRecord(tx *goqu.TxDatabase, req models.TransferRequest) (int, error)
}

type stockMutator interface {
	ApplyTransferOut(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
	ApplyTransferIn(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

type TransferService struct {
	r      *repository.Repository
	tr     transferStore
	stocks stockMutator
	runTx  func(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, tr transferStore, stocks stockMutator) *TransferService {
	return &TransferService{r: r, tr: tr, stocks: stocks, runTx: repository.WithTransaction}
}

// PerformTransfer records the transfer and moves stock between the two
// bases in one transaction. Both sides are two views of the same record;
// they can never drift apart.
func (s *TransferService) PerformTransfer(req models.TransferRequest) (int, error) {
	if req.FromBaseID == req.ToBaseID {
		return 0, fmt.Errorf("transfer source and destination base must differ")
	}

	var transferID int

	err := s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if transferID, err = s.tr.InsertTransferRecord(tx, req); err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := s.stocks.ApplyTransferOut(tx, req.FromBaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
			if err := s.stocks.ApplyTransferIn(tx, req.ToBaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return transferID, nil
}
