package assignments

import (
	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type assignmentStore interface {
	InsertAssignmentRecord(tx *goqu.TxDatabase, req models.AssignmentRequest) (int, error)
}

type stockMutator interface {
	ApplyAssignment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

type AssignmentService struct {
	r      *repository.Repository
	ar     assignmentStore
	stocks stockMutator
	runTx  func(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, ar assignmentStore, stocks stockMutator) *AssignmentService {
	return &AssignmentService{r: r, ar: ar, stocks: stocks, runTx: repository.WithTransaction}
}

// CreateAssignment checks quantities out to a person. On-hand quantity is
// untouched: assigned stock stays on the base's books until expended.
func (s *AssignmentService) CreateAssignment(req models.AssignmentRequest) (int, error) {
	var assignmentID int

	err := s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		if assignmentID, err = s.ar.InsertAssignmentRecord(tx, req); err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := s.stocks.ApplyAssignment(tx, req.BaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return assignmentID, nil
}
