package assignments

import (
	"fmt"

	"armory/internal/filters"
	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AssignmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssignmentRepository {
	return &AssignmentRepository{repository: r}
}

var assignmentAliases = map[string]string{
	"base_id":   "s.base_id",
	"asset_id":  "i.asset_id",
	"date_from": "s.assign_date",
	"date_to":   "s.assign_date",
}

func (r *AssignmentRepository) InsertAssignmentRecord(tx *goqu.TxDatabase, req models.AssignmentRequest) (int, error) {
	var assignmentID int
	query := tx.Insert("assignments").
		Rows(goqu.Record{
			"base_id":     req.BaseID,
			"assigned_to": req.AssignedTo,
			"assign_date": req.AssignDate,
			"remarks":     req.Remarks,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&assignmentID); err != nil {
		return 0, fmt.Errorf("failed to insert assignment record: %w", err)
	}

	rows := make([]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		rows = append(rows, goqu.Record{
			"assignment_id": assignmentID,
			"asset_id":      item.AssetID,
			"quantity":      item.Quantity,
			"is_expended":   false,
		})
	}
	if _, err := tx.Insert("assignment_items").Rows(rows...).Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to insert assignment items: %w", err)
	}

	return assignmentID, nil
}

func (r *AssignmentRepository) GetAssignment(assignmentID int) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.id").As("id"),
			goqu.I("s.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("s.assigned_to").As("assigned_to"),
			goqu.I("s.assign_date").As("assign_date"),
			goqu.I("s.remarks").As("remarks"),
			goqu.I("s.created_at").As("created_at"),
		).
		From(goqu.T("assignments").As("s")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("s.base_id")})).
		Where(goqu.Ex{"s.id": assignmentID})

	found, err := query.Executor().ScanStruct(&assignment)
	if err != nil {
		return nil, fmt.Errorf("unable to select assignment: %w", err)
	}
	if !found {
		return nil, nil
	}

	items, err := r.GetAssignmentItems(assignmentID)
	if err != nil {
		return nil, err
	}
	assignment.Items = items

	return &assignment, nil
}

func (r *AssignmentRepository) GetAssignmentItems(assignmentID int) ([]models.AssignmentItem, error) {
	var items []models.AssignmentItem
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.id").As("id"),
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
			goqu.I("i.is_expended").As("is_expended"),
		).
		From(goqu.T("assignment_items").As("i")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(goqu.Ex{"i.assignment_id": assignmentID}).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select assignment items: %w", err)
	}

	return items, nil
}

// MarkItemsExpended flips the selected items. The WHERE clause only touches
// rows that are still unexpended, so the affected-row count tells the caller
// whether every selected item was genuinely eligible.
func (r *AssignmentRepository) MarkItemsExpended(tx *goqu.TxDatabase, assignmentID int, itemIDs []int) (int, error) {
	query := tx.Update("assignment_items").
		Set(goqu.Record{"is_expended": true}).
		Where(goqu.Ex{
			"assignment_id": assignmentID,
			"id":            itemIDs,
			"is_expended":   false,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to mark assignment items expended: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

func (r *AssignmentRepository) GetAssignmentsBy(filter *filters.FilterState) ([]models.Assignment, int, error) {
	base := r.repository.GoquDBWrapper.
		From(goqu.T("assignments").As("s")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("s.base_id")})).
		LeftJoin(goqu.T("assignment_items").As("i"), goqu.On(goqu.Ex{"i.assignment_id": goqu.I("s.id")})).
		Where(filter.BuildConditions(assignmentAliases))

	var total int
	if _, err := base.Select(goqu.COUNT(goqu.DISTINCT(goqu.I("s.id")))).Executor().ScanVal(&total); err != nil {
		return nil, 0, fmt.Errorf("unable to count assignments: %w", err)
	}

	order := goqu.I("s.assign_date").Desc()
	if !filter.SortDesc {
		order = goqu.I("s.assign_date").Asc()
	}

	query := base.SelectDistinct(
		goqu.I("s.id").As("id"),
		goqu.I("s.base_id").As("base_id"),
		goqu.I("b.name").As("base_name"),
		goqu.I("s.assigned_to").As("assigned_to"),
		goqu.I("s.assign_date").As("assign_date"),
		goqu.I("s.remarks").As("remarks"),
		goqu.I("s.created_at").As("created_at"),
	).
		Order(order, goqu.I("s.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset()))

	var assignments []models.Assignment
	if err := query.Executor().ScanStructs(&assignments); err != nil {
		return nil, 0, fmt.Errorf("unable to select assignments: %w", err)
	}

	for i := range assignments {
		items, err := r.GetAssignmentItems(assignments[i].ID)
		if err != nil {
			return nil, 0, err
		}
		assignments[i].Items = items
	}

	return assignments, total, nil
}
