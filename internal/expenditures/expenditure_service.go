package expenditures

import (
	"fmt"

	"armory/internal/repository"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type expenditureStore interface {
	InsertExpenditureRecord(tx *goqu.TxDatabase, record models.Expenditure) (int, error)
}

type assignmentStore interface {
	GetAssignment(assignmentID int) (*models.Assignment, error)
	MarkItemsExpended(tx *goqu.TxDatabase, assignmentID int, itemIDs []int) (int, error)
}

type stockMutator interface {
	ApplyExpenditure(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
	ApplyFulfillment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error
}

type ExpenditureService struct {
	r           *repository.Repository
	er          expenditureStore
	assignments assignmentStore
	stocks      stockMutator
	runTx       func(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, er expenditureStore, assignments assignmentStore, stocks stockMutator) *ExpenditureService {
	return &ExpenditureService{
		r:           r,
		er:          er,
		assignments: assignments,
		stocks:      stocks,
		runTx:       repository.WithTransaction,
	}
}

// CreateExpenditure records a direct expenditure, one that consumes stock
// without a prior assignment. Only the unassigned share of a base's stock is
// eligible; quantities reserved by active assignments stay untouched.
func (s *ExpenditureService) CreateExpenditure(req models.ExpenditureRequest) (int, error) {
	var expenditureID int

	err := s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		record := models.Expenditure{
			BaseID:     req.BaseID,
			ExpendedBy: req.ExpendedBy,
			ExpendDate: req.ExpendDate,
			Remarks:    req.Remarks,
		}
		for _, item := range req.Items {
			record.Items = append(record.Items, models.LineItem{
				AssetID:  item.AssetID,
				Quantity: item.Quantity,
			})
		}

		var err error
		if expenditureID, err = s.er.InsertExpenditureRecord(tx, record); err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := s.stocks.ApplyExpenditure(tx, req.BaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return expenditureID, nil
}

// MarkAssignedAsExpended fulfills the selected items of an assignment. Each
// selected item is expended in full for its assigned quantity; per asset the
// base's expended count grows while both the reservation and the on-hand
// quantity shrink by the same amount.
//
// The selection must be a non-empty subset of the assignment's currently
// unexpended items, and a fully-expended assignment rejects further calls.
// The item flags are flipped with a guarded update inside the transaction, so
// two concurrent calls over the same items cannot both settle.
func (s *ExpenditureService) MarkAssignedAsExpended(assignmentID int, req models.FulfillmentRequest) (int, error) {
	assignment, err := s.assignments.GetAssignment(assignmentID)
	if err != nil {
		return 0, err
	}
	if assignment == nil {
		return 0, fmt.Errorf("assignment %d not found", assignmentID)
	}
	if assignment.IsExpended() {
		return 0, custom_error.NewInvalidStateTransition("assignment",
			fmt.Sprintf("assignment %d is already fully expended", assignmentID))
	}

	unexpended := make(map[int]models.AssignmentItem, len(assignment.Items))
	for _, item := range assignment.UnexpendedItems() {
		unexpended[item.ID] = item
	}

	selected := make([]models.AssignmentItem, 0, len(req.Items))
	for _, itemID := range req.Items {
		item, ok := unexpended[itemID]
		if !ok {
			return 0, custom_error.NewInvalidStateTransition("assignment item",
				fmt.Sprintf("item %d is not an unexpended item of assignment %d", itemID, assignmentID))
		}
		selected = append(selected, item)
	}

	var expenditureID int

	err = s.runTx(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		flipped, err := s.assignments.MarkItemsExpended(tx, assignmentID, req.Items)
		if err != nil {
			return err
		}
		// A concurrent fulfillment got to some of these items first; the
		// rows-affected count is the arbiter.
		if flipped != len(req.Items) {
			return custom_error.NewInvalidStateTransition("assignment item",
				fmt.Sprintf("%d of %d selected items were already expended", len(req.Items)-flipped, len(req.Items)))
		}

		record := models.Expenditure{
			BaseID:       assignment.BaseID,
			ExpendedBy:   req.ExpendedBy,
			ExpendDate:   req.ExpendDate,
			Remarks:      req.Remarks,
			AssignmentID: &assignmentID,
		}
		for _, item := range selected {
			record.Items = append(record.Items, models.LineItem{
				AssetID:  item.AssetID,
				Quantity: item.Quantity,
			})
		}

		if expenditureID, err = s.er.InsertExpenditureRecord(tx, record); err != nil {
			return err
		}

		for _, item := range selected {
			if err := s.stocks.ApplyFulfillment(tx, assignment.BaseID, item.AssetID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return expenditureID, nil
}
