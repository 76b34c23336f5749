package summary

import (
	"fmt"
	"time"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type SummaryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *SummaryRepository {
	return &SummaryRepository{repository: r}
}

// AssetDeltas are the summed per-asset transaction quantities of one base
// over a half-open time window [from, to).
type AssetDeltas struct {
	AssetID      int
	AssetName    string
	Category     models.Category
	Purchases    int
	TransfersIn  int
	TransfersOut int
	Assigned     int
	Expended     int
}

type kindSum struct {
	AssetID  int `db:"asset_id"`
	Quantity int `db:"quantity"`
}

// GetDeltas replays every transaction kind touching the base inside the
// window and folds the sums per asset. A zero `from` means "since the
// beginning", a zero `to` means "until now"; both are how the opening
// balance replay and the live window are expressed.
func (r *SummaryRepository) GetDeltas(baseID int, from, to time.Time) (map[int]*AssetDeltas, error) {
	deltas := map[int]*AssetDeltas{}

	add := func(sums []kindSum, assign func(d *AssetDeltas, quantity int)) {
		for _, sum := range sums {
			d, ok := deltas[sum.AssetID]
			if !ok {
				d = &AssetDeltas{AssetID: sum.AssetID}
				deltas[sum.AssetID] = d
			}
			assign(d, sum.Quantity)
		}
	}

	purchases, err := r.sumByAsset("purchases", "purchase_items", "purchase_id", "purchase_date",
		goqu.Ex{"t.base_id": baseID}, from, to)
	if err != nil {
		return nil, err
	}
	add(purchases, func(d *AssetDeltas, q int) { d.Purchases = q })

	transfersIn, err := r.sumByAsset("transfers", "transfer_items", "transfer_id", "transfer_date",
		goqu.Ex{"t.to_base_id": baseID}, from, to)
	if err != nil {
		return nil, err
	}
	add(transfersIn, func(d *AssetDeltas, q int) { d.TransfersIn = q })

	transfersOut, err := r.sumByAsset("transfers", "transfer_items", "transfer_id", "transfer_date",
		goqu.Ex{"t.from_base_id": baseID}, from, to)
	if err != nil {
		return nil, err
	}
	add(transfersOut, func(d *AssetDeltas, q int) { d.TransfersOut = q })

	assigned, err := r.sumByAsset("assignments", "assignment_items", "assignment_id", "assign_date",
		goqu.Ex{"t.base_id": baseID}, from, to)
	if err != nil {
		return nil, err
	}
	add(assigned, func(d *AssetDeltas, q int) { d.Assigned = q })

	expended, err := r.sumByAsset("expenditures", "expenditure_items", "expenditure_id", "expend_date",
		goqu.Ex{"t.base_id": baseID}, from, to)
	if err != nil {
		return nil, err
	}
	add(expended, func(d *AssetDeltas, q int) { d.Expended = q })

	if err := r.attachAssetInfo(deltas); err != nil {
		return nil, err
	}

	return deltas, nil
}

func (r *SummaryRepository) sumByAsset(table, itemTable, fkColumn, dateColumn string, baseCondition goqu.Ex, from, to time.Time) ([]kindSum, error) {
	conditions := []goqu.Expression{baseCondition}
	if !from.IsZero() {
		conditions = append(conditions, goqu.I("t."+dateColumn).Gte(from))
	}
	if !to.IsZero() {
		conditions = append(conditions, goqu.I("t."+dateColumn).Lt(to))
	}

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.asset_id").As("asset_id"),
			goqu.SUM(goqu.I("i.quantity")).As("quantity"),
		).
		From(goqu.T(table).As("t")).
		Join(goqu.T(itemTable).As("i"), goqu.On(goqu.Ex{"i." + fkColumn: goqu.I("t.id")})).
		Where(conditions...).
		GroupBy(goqu.I("i.asset_id"))

	var sums []kindSum
	if err := query.Executor().ScanStructs(&sums); err != nil {
		return nil, fmt.Errorf("unable to sum %s by asset: %w", table, err)
	}

	return sums, nil
}

func (r *SummaryRepository) attachAssetInfo(deltas map[int]*AssetDeltas) error {
	if len(deltas) == 0 {
		return nil
	}

	ids := make([]int, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}

	var assets []models.Asset
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "category").
		From("assets").
		Where(goqu.Ex{"id": ids})
	if err := query.Executor().ScanStructs(&assets); err != nil {
		return fmt.Errorf("unable to select summary assets: %w", err)
	}

	for _, asset := range assets {
		if d, ok := deltas[asset.ID]; ok {
			d.AssetName = asset.Name
			d.Category = asset.Category
		}
	}

	return nil
}
