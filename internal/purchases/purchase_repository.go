package purchases

import (
	"fmt"

	"armory/internal/filters"
	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type PurchaseRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *PurchaseRepository {
	return &PurchaseRepository{repository: r}
}

var purchaseAliases = map[string]string{
	"base_id":   "p.base_id",
	"asset_id":  "i.asset_id",
	"date_from": "p.purchase_date",
	"date_to":   "p.purchase_date",
}

func (r *PurchaseRepository) InsertPurchaseRecord(tx *goqu.TxDatabase, req models.PurchaseRequest) (int, error) {
	var purchaseID int
	query := tx.Insert("purchases").
		Rows(goqu.Record{
			"base_id":       req.BaseID,
			"purchase_date": req.PurchaseDate,
			"invoice_no":    req.InvoiceNo,
			"remarks":       req.Remarks,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&purchaseID); err != nil {
		return 0, fmt.Errorf("failed to insert purchase record: %w", err)
	}

	if err := insertPurchaseItems(tx, purchaseID, req.Items); err != nil {
		return 0, err
	}

	return purchaseID, nil
}

func insertPurchaseItems(tx *goqu.TxDatabase, purchaseID int, items []models.LineItemRequest) error {
	rows := make([]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, goqu.Record{
			"purchase_id": purchaseID,
			"asset_id":    item.AssetID,
			"quantity":    item.Quantity,
		})
	}

	if _, err := tx.Insert("purchase_items").Rows(rows...).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert purchase items: %w", err)
	}

	return nil
}

// ReplacePurchaseRecord rewrites a purchase's metadata and line items in
// place during a pre-settlement edit.
func (r *PurchaseRepository) ReplacePurchaseRecord(tx *goqu.TxDatabase, purchaseID int, req models.PurchaseRequest) error {
	update := tx.Update("purchases").
		Set(goqu.Record{
			"base_id":       req.BaseID,
			"purchase_date": req.PurchaseDate,
			"invoice_no":    req.InvoiceNo,
			"remarks":       req.Remarks,
		}).
		Where(goqu.Ex{"id": purchaseID})

	result, err := update.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update purchase record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no purchase found with id: %d", purchaseID)
	}

	if _, err := tx.Delete("purchase_items").
		Where(goqu.Ex{"purchase_id": purchaseID}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to clear purchase items: %w", err)
	}

	return insertPurchaseItems(tx, purchaseID, req.Items)
}

func (r *PurchaseRepository) GetPurchase(purchaseID int) (*models.Purchase, error) {
	var purchase models.Purchase
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("id"),
			goqu.I("p.base_id").As("base_id"),
			goqu.I("b.name").As("base_name"),
			goqu.I("p.purchase_date").As("purchase_date"),
			goqu.I("p.invoice_no").As("invoice_no"),
			goqu.I("p.remarks").As("remarks"),
			goqu.I("p.created_at").As("created_at"),
		).
		From(goqu.T("purchases").As("p")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("p.base_id")})).
		Where(goqu.Ex{"p.id": purchaseID})

	found, err := query.Executor().ScanStruct(&purchase)
	if err != nil {
		return nil, fmt.Errorf("unable to select purchase: %w", err)
	}
	if !found {
		return nil, nil
	}

	items, err := r.GetPurchaseItems(purchaseID)
	if err != nil {
		return nil, err
	}
	purchase.Items = items

	return &purchase, nil
}

func (r *PurchaseRepository) GetPurchaseItems(purchaseID int) ([]models.LineItem, error) {
	var items []models.LineItem
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("purchase_items").As("i")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(goqu.Ex{"i.purchase_id": purchaseID}).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select purchase items: %w", err)
	}

	return items, nil
}

func (r *PurchaseRepository) GetPurchasesBy(filter *filters.FilterState) ([]models.Purchase, int, error) {
	base := r.repository.GoquDBWrapper.
		From(goqu.T("purchases").As("p")).
		Join(goqu.T("bases").As("b"), goqu.On(goqu.Ex{"b.id": goqu.I("p.base_id")})).
		LeftJoin(goqu.T("purchase_items").As("i"), goqu.On(goqu.Ex{"i.purchase_id": goqu.I("p.id")})).
		Where(filter.BuildConditions(purchaseAliases))

	var total int
	if _, err := base.Select(goqu.COUNT(goqu.DISTINCT(goqu.I("p.id")))).Executor().ScanVal(&total); err != nil {
		return nil, 0, fmt.Errorf("unable to count purchases: %w", err)
	}

	order := goqu.I("p.purchase_date").Desc()
	if !filter.SortDesc {
		order = goqu.I("p.purchase_date").Asc()
	}

	query := base.SelectDistinct(
		goqu.I("p.id").As("id"),
		goqu.I("p.base_id").As("base_id"),
		goqu.I("b.name").As("base_name"),
		goqu.I("p.purchase_date").As("purchase_date"),
		goqu.I("p.invoice_no").As("invoice_no"),
		goqu.I("p.remarks").As("remarks"),
		goqu.I("p.created_at").As("created_at"),
	).
		Order(order, goqu.I("p.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset()))

	var purchases []models.Purchase
	if err := query.Executor().ScanStructs(&purchases); err != nil {
		return nil, 0, fmt.Errorf("unable to select purchases: %w", err)
	}

	for i := range purchases {
		items, err := r.GetPurchaseItems(purchases[i].ID)
		if err != nil {
			return nil, 0, err
		}
		purchases[i].Items = items
	}

	return purchases, total, nil
}
