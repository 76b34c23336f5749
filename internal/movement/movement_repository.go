package movement

import (
	"fmt"
	"time"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// MovementRepository projects the four transaction tables into flat movement
// rows. Filtering, ordering and pagination happen in the compiler; the
// repository only narrows by date window to bound the result set.
type MovementRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MovementRepository {
	return &MovementRepository{repository: r}
}

type movementRow struct {
	Seq         int       `db:"seq"`
	Date        time.Time `db:"date"`
	BaseID      int       `db:"base_id"`
	BaseName    string    `db:"base_name"`
	PerformedBy string    `db:"performed_by"`
	Remarks     string    `db:"remarks"`
	AssetID     int       `db:"asset_id"`
	AssetName   string    `db:"asset_name"`
	Quantity    int       `db:"quantity"`
}

func dateWindow(column string, from, to time.Time) []goqu.Expression {
	var conditions []goqu.Expression
	if !from.IsZero() {
		conditions = append(conditions, goqu.I(column).Gte(from))
	}
	if !to.IsZero() {
		conditions = append(conditions, goqu.I(column).Lt(to.AddDate(0, 0, 1)))
	}
	return conditions
}

func (r *MovementRepository) GetPurchaseMovements(from, to time.Time) ([]models.MovementLogEntry, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("seq"),
			goqu.I("p.purchase_date").As("date"),
			goqu.I("p.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("p.invoice_no").As("performed_by"),
			goqu.I("p.remarks").As("remarks"),
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("purchases").As("p")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("p.base_id")})).
		Join(goqu.T("purchase_items").As("i"), goqu.On(goqu.Ex{"i.purchase_id": goqu.I("p.id")})).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(dateWindow("p.purchase_date", from, to)...).
		Order(goqu.I("p.id").Asc(), goqu.I("i.id").Asc())

	return scanMovements(query, models.ActionPurchase)
}

// GetTransferMovements renders each transfer twice, once per side, so that
// base filtering sees the movement at both the source and the destination.
func (r *MovementRepository) GetTransferMovements(from, to time.Time) ([]models.MovementLogEntry, error) {
	sides := []struct {
		baseColumn string
		otherAlias string
		direction  string
	}{
		{"t.from_base_id", "tb", "out to"},
		{"t.to_base_id", "fb", "in from"},
	}

	var entries []models.MovementLogEntry
	for _, side := range sides {
		query := r.repository.GoquDBWrapper.
			Select(
				goqu.I("t.id").As("seq"),
				goqu.I("t.transfer_date").As("date"),
				goqu.I(side.baseColumn).As("base_id"),
				goqu.I("b.name").As("base_name"),
				goqu.I("t.invoice_no").As("performed_by"),
				goqu.L("? || ' ' || ?", goqu.V(side.direction), goqu.I(side.otherAlias+".name")).As("remarks"),
				goqu.I("i.asset_id").As("asset_id"),
				goqu.I("a.name").As("asset_name"),
				goqu.I("i.quantity").As("quantity"),
			).
			From(goqu.T("transfers").As("t")).
			Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I(side.baseColumn)})).
			Join(goqu.T("bases").As("fb"), goqu.On(goqu.Ex{"fb.id": goqu.I("t.from_base_id")})).
			Join(goqu.T("bases").As("tb"), goqu.On(goqu.Ex{"tb.id": goqu.I("t.to_base_id")})).
			Join(goqu.T("transfer_items").As("i"), goqu.On(goqu.Ex{"i.transfer_id": goqu.I("t.id")})).
			Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
			Where(dateWindow("t.transfer_date", from, to)...).
			Order(goqu.I("t.id").Asc(), goqu.I("i.id").Asc())

		sideEntries, err := scanMovements(query, models.ActionTransfer)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sideEntries...)
	}

	return entries, nil
}

func (r *MovementRepository) GetAssignmentMovements(from, to time.Time) ([]models.MovementLogEntry, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.id").As("seq"),
			goqu.I("s.assign_date").As("date"),
			goqu.I("s.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("s.assigned_to").As("performed_by"),
			goqu.I("s.remarks").As("remarks"),
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("assignments").As("s")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("s.base_id")})).
		Join(goqu.T("assignment_items").As("i"), goqu.On(goqu.Ex{"i.assignment_id": goqu.I("s.id")})).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(dateWindow("s.assign_date", from, to)...).
		Order(goqu.I("s.id").Asc(), goqu.I("i.id").Asc())

	return scanMovements(query, models.ActionAssignment)
}

func (r *MovementRepository) GetExpenditureMovements(from, to time.Time) ([]models.MovementLogEntry, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("e.id").As("seq"),
			goqu.I("e.expend_date").As("date"),
			goqu.I("e.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("e.expended_by").As("performed_by"),
			goqu.I("e.remarks").As("remarks"),
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("expenditures").As("e")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("e.base_id")})).
		Join(goqu.T("expenditure_items").As("i"), goqu.On(goqu.Ex{"i.expenditure_id": goqu.I("e.id")})).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(dateWindow("e.expend_date", from, to)...).
		Order(goqu.I("e.id").Asc(), goqu.I("i.id").Asc())

	return scanMovements(query, models.ActionExpenditure)
}

// scanMovements groups flat item rows into one entry per transaction while
// preserving the query's creation order.
func scanMovements(query *goqu.SelectDataset, action models.ActionType) ([]models.MovementLogEntry, error) {
	var rows []movementRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to select %s movements: %w", action, err)
	}

	var entries []models.MovementLogEntry
	byKey := map[string]int{}
	for _, row := range rows {
		key := fmt.Sprintf("%d/%d", row.Seq, row.BaseID)
		idx, ok := byKey[key]
		if !ok {
			entries = append(entries, models.MovementLogEntry{
				Seq:         row.Seq,
				Date:        row.Date,
				ActionType:  action,
				BaseID:      row.BaseID,
				BaseName:    row.BaseName,
				PerformedBy: row.PerformedBy,
				Remarks:     row.Remarks,
			})
			idx = len(entries) - 1
			byKey[key] = idx
		}
		entries[idx].Items = append(entries[idx].Items, models.LineItem{
			AssetID:   row.AssetID,
			AssetName: row.AssetName,
			Quantity:  row.Quantity,
		})
	}

	return entries, nil
}
