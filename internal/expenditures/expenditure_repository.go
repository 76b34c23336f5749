package expenditures

import (
	"fmt"

	"armory/internal/filters"
	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ExpenditureRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ExpenditureRepository {
	return &ExpenditureRepository{repository: r}
}

var expenditureAliases = map[string]string{
	"base_id":   "e.base_id",
	"asset_id":  "i.asset_id",
	"date_from": "e.expend_date",
	"date_to":   "e.expend_date",
}

func (r *ExpenditureRepository) InsertExpenditureRecord(tx *goqu.TxDatabase, record models.Expenditure) (int, error) {
	var expenditureID int
	query := tx.Insert("expenditures").
		Rows(goqu.Record{
			"base_id":       record.BaseID,
			"expended_by":   record.ExpendedBy,
			"expend_date":   record.ExpendDate,
			"remarks":       record.Remarks,
			"assignment_id": record.AssignmentID,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&expenditureID); err != nil {
		return 0, fmt.Errorf("failed to insert expenditure record: %w", err)
	}

	rows := make([]interface{}, 0, len(record.Items))
	for _, item := range record.Items {
		rows = append(rows, goqu.Record{
			"expenditure_id": expenditureID,
			"asset_id":       item.AssetID,
			"quantity":       item.Quantity,
		})
	}
	if _, err := tx.Insert("expenditure_items").Rows(rows...).Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to insert expenditure items: %w", err)
	}

	return expenditureID, nil
}

func (r *ExpenditureRepository) GetExpenditure(expenditureID int) (*models.Expenditure, error) {
	var expenditure models.Expenditure
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("e.id").As("id"),
			goqu.I("e.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("e.expended_by").As("expended_by"),
			goqu.I("e.expend_date").As("expend_date"),
			goqu.I("e.remarks").As("remarks"),
			goqu.I("e.assignment_id").As("assignment_id"),
			goqu.I("e.created_at").As("created_at"),
		).
		From(goqu.T("expenditures").As("e")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("e.base_id")})).
		Where(goqu.Ex{"e.id": expenditureID})

	found, err := query.Executor().ScanStruct(&expenditure)
	if err != nil {
		return nil, fmt.Errorf("unable to select expenditure: %w", err)
	}
	if !found {
		return nil, nil
	}

	items, err := r.GetExpenditureItems(expenditureID)
	if err != nil {
		return nil, err
	}
	expenditure.Items = items

	return &expenditure, nil
}

func (r *ExpenditureRepository) GetExpenditureItems(expenditureID int) ([]models.LineItem, error) {
	var items []models.LineItem
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("expenditure_items").As("i")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(goqu.Ex{"i.expenditure_id": expenditureID}).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select expenditure items: %w", err)
	}

	return items, nil
}

func (r *ExpenditureRepository) GetExpendituresBy(filter *filters.FilterState) ([]models.Expenditure, int, error) {
	base := r.repository.GoquDBWrapper.
		From(goqu.T("expenditures").As("e")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("e.base_id")})).
		LeftJoin(goqu.T("expenditure_items").As("i"), goqu.On(goqu.Ex{"i.expenditure_id": goqu.I("e.id")})).
		Where(filter.BuildConditions(expenditureAliases))

	var total int
	if _, err := base.Select(goqu.COUNT(goqu.DISTINCT(goqu.I("e.id")))).Executor().ScanVal(&total); err != nil {
		return nil, 0, fmt.Errorf("unable to count expenditures: %w", err)
	}

	order := goqu.I("e.expend_date").Desc()
	if !filter.SortDesc {
		order = goqu.I("e.expend_date").Asc()
	}

	query := base.SelectDistinct(
		goqu.I("e.id").As("id"),
		goqu.I("e.base_id").As("base_id"),
		goqu.I("b.name").As("base_name"),
		goqu.I("e.expended_by").As("expended_by"),
		goqu.I("e.expend_date").As("expend_date"),
		goqu.I("e.remarks").As("remarks"),
		goqu.I("e.assignment_id").As("assignment_id"),
		goqu.I("e.created_at").As("created_at"),
	).
		Order(order, goqu.I("e.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset()))

	var expenditures []models.Expenditure
	if err := query.Executor().ScanStructs(&expenditures); err != nil {
		return nil, 0, fmt.Errorf("unable to select expenditures: %w", err)
	}

	for i := range expenditures {
		items, err := r.GetExpenditureItems(expenditures[i].ID)
		if err != nil {
			return nil, 0, err
		}
		expenditures[i].Items = items
	}

	return expenditures, total, nil
}
