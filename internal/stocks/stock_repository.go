package stocks

import (
	"fmt"

	"armory/internal/repository"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// StockRepository owns the inventory_stocks counters. Every mutation runs
// inside the caller's transaction so counters never drift from the records
// that justify them.
type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

var stockAliases = map[string]string{
	"base_id":  "s.base_id",
	"asset_id": "s.asset_id",
	"category": "a.category",
}

func (r *StockRepository) GetStocksBy(conditions repository.QueryBuilder) ([]models.InventoryStock, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("s.base_id").As("base_id"),
			goqu.I("s.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("a.category").As("category"),
			goqu.I("a.unit").As("unit"),
			goqu.I("s.quantity").As("quantity"),
			goqu.I("s.purchased").As("purchased"),
			goqu.I("s.assigned").As("assigned"),
			goqu.I("s.expended").As("expended"),
			goqu.I("s.transferred_in").As("transferred_in"),
			goqu.I("s.transferred_out").As("transferred_out"),
		).
		From(goqu.T("inventory_stocks").As("s")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("s.asset_id")})).
		Where(conditions.BuildConditions(stockAliases)).
		Order(goqu.I("a.name").Asc())

	var stocks []models.InventoryStock
	if err := query.Executor().ScanStructs(&stocks); err != nil {
		return nil, fmt.Errorf("unable to select stocks from database: %w", err)
	}

	return stocks, nil
}

func (r *StockRepository) GetStock(baseID, assetID int) (*models.InventoryStock, error) {
	var stock models.InventoryStock
	query := r.repository.GoquDBWrapper.
		Select("base_id", "asset_id", "quantity", "purchased", "assigned",
			"expended", "transferred_in", "transferred_out").
		From("inventory_stocks").
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID})

	found, err := query.Executor().ScanStruct(&stock)
	if err != nil {
		return nil, fmt.Errorf("unable to select stock record: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &stock, nil
}

// ApplyPurchase credits purchased stock, creating the counter row on first
// contact of an asset with a base.
func (r *StockRepository) ApplyPurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Insert("inventory_stocks").
		Rows(goqu.Record{
			"base_id":   baseID,
			"asset_id":  assetID,
			"quantity":  quantity,
			"purchased": quantity,
		}).
		OnConflict(
			goqu.DoUpdate(
				"base_id, asset_id",
				goqu.Record{
					"quantity":  goqu.L("inventory_stocks.quantity + EXCLUDED.quantity"),
					"purchased": goqu.L("inventory_stocks.purchased + EXCLUDED.purchased"),
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to credit purchase for asset %d: %w", assetID, err)
	}

	return nil
}

// ApplyTransferIn credits the receiving base.
func (r *StockRepository) ApplyTransferIn(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Insert("inventory_stocks").
		Rows(goqu.Record{
			"base_id":        baseID,
			"asset_id":       assetID,
			"quantity":       quantity,
			"transferred_in": quantity,
		}).
		OnConflict(
			goqu.DoUpdate(
				"base_id, asset_id",
				goqu.Record{
					"quantity":       goqu.L("inventory_stocks.quantity + EXCLUDED.quantity"),
					"transferred_in": goqu.L("inventory_stocks.transferred_in + EXCLUDED.transferred_in"),
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to credit transfer for asset %d: %w", assetID, err)
	}

	return nil
}

// ApplyTransferOut debits the sending base, failing when on-hand quantity
// would go negative.
func (r *StockRepository) ApplyTransferOut(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Update("inventory_stocks").
		Set(goqu.Record{
			"quantity":        goqu.L("quantity - ?", quantity),
			"transferred_out": goqu.L("transferred_out + ?", quantity),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		Where(goqu.C("quantity").Gte(quantity))

	return r.execGuarded(query, baseID, assetID)
}

// ApplyAssignment marks quantity as checked out. Assigned stock stays in
// the on-hand quantity until it is expended, so only the assigned counter
// moves; the guard keeps assignments within unassigned on-hand stock.
func (r *StockRepository) ApplyAssignment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Update("inventory_stocks").
		Set(goqu.Record{
			"assigned": goqu.L("assigned + ?", quantity),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		Where(goqu.L("quantity - assigned >= ?", quantity))

	return r.execGuarded(query, baseID, assetID)
}

// ApplyExpenditure consumes unassigned stock directly.
func (r *StockRepository) ApplyExpenditure(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Update("inventory_stocks").
		Set(goqu.Record{
			"quantity": goqu.L("quantity - ?", quantity),
			"expended": goqu.L("expended + ?", quantity),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		Where(goqu.L("quantity - assigned >= ?", quantity))

	return r.execGuarded(query, baseID, assetID)
}

// ApplyFulfillment consumes previously assigned stock: the quantity leaves
// the books and the assignment checkout is settled.
func (r *StockRepository) ApplyFulfillment(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Update("inventory_stocks").
		Set(goqu.Record{
			"quantity": goqu.L("quantity - ?", quantity),
			"assigned": goqu.L("assigned - ?", quantity),
			"expended": goqu.L("expended + ?", quantity),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Where(goqu.C("assigned").Gte(quantity))

	return r.execGuarded(query, baseID, assetID)
}

// ReversePurchase backs out a purchase line during a pre-settlement edit.
// It fails when the quantity has already moved on (transferred or expended).
func (r *StockRepository) ReversePurchase(tx *goqu.TxDatabase, baseID, assetID, quantity int) error {
	query := tx.Update("inventory_stocks").
		Set(goqu.Record{
			"quantity":  goqu.L("quantity - ?", quantity),
			"purchased": goqu.L("purchased - ?", quantity),
		}).
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Where(goqu.C("purchased").Gte(quantity))

	return r.execGuarded(query, baseID, assetID)
}

func (r *StockRepository) execGuarded(query *goqu.UpdateDataset, baseID, assetID int) error {
	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update stock for asset %d at base %d: %w", assetID, baseID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for asset %d: %w", assetID, err)
	}

	if rowsAffected == 0 {
		return &custom_error.InsufficientStockError{AssetID: assetID, BaseID: baseID}
	}

	return nil
}
