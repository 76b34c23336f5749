package transfers

import (
	"fmt"

	"armory/internal/filters"
	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TransferRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *TransferRepository {
	return &TransferRepository{repository: r}
}

var transferAliases = map[string]string{
	"asset_id":  "i.asset_id",
	"date_from": "t.transfer_date",
	"date_to":   "t.transfer_date",
}

func (r *TransferRepository) InsertTransferRecord(tx *goqu.TxDatabase, req models.TransferRequest) (int, error) {
	var transferID int
	query := tx.Insert("transfers").
		Rows(goqu.Record{
			"from_base_id":  req.FromBaseID,
			"to_base_id":    req.ToBaseID,
			"transfer_date": req.TransferDate,
			"invoice_no":    req.InvoiceNo,
			"remarks":       req.Remarks,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&transferID); err != nil {
		return 0, fmt.Errorf("failed to insert transfer record: %w", err)
	}

	rows := make([]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		rows = append(rows, goqu.Record{
			"transfer_id": transferID,
			"asset_id":    item.AssetID,
			"quantity":    item.Quantity,
		})
	}
	if _, err := tx.Insert("transfer_items").Rows(rows...).Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to insert transfer items: %w", err)
	}

	return transferID, nil
}

func (r *TransferRepository) GetTransfer(transferID int) (*models.Transfer, error) {
	var transfer models.Transfer
	query := r.transferQuery().Where(goqu.Ex{"t.id": transferID})

	found, err := query.Executor().ScanStruct(&transfer)
	if err != nil {
		return nil, fmt.Errorf("unable to select transfer: %w", err)
	}
	if !found {
		return nil, nil
	}

	items, err := r.GetTransferItems(transferID)
	if err != nil {
		return nil, err
	}
	transfer.Items = items

	return &transfer, nil
}

func (r *TransferRepository) GetTransferItems(transferID int) ([]models.LineItem, error) {
	var items []models.LineItem
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.quantity").As("quantity"),
		).
		From(goqu.T("transfer_items").As("i")).
		Join(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"a.id": goqu.I("i.asset_id")})).
		Where(goqu.Ex{"i.transfer_id": transferID}).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select transfer items: %w", err)
	}

	return items, nil
}

func (r *TransferRepository) GetTransfersBy(filter *filters.FilterState) ([]models.Transfer, int, error) {
	// The base predicate matches either side of the transfer, so it is
	// handled apart from the aliased conditions.
	unscoped := *filter
	unscoped.BaseID = 0
	conditions := unscoped.BuildConditions(transferAliases)

	base := r.repository.GoquDBWrapper.
		From(goqu.T("transfers").As("t")).
		Join(goqu.T("bases").As("fb"), goqu.On(goqu.Ex{"fb.id": goqu.I("t.from_base_id")})).
		Join(goqu.T("bases").As("tb"), goqu.On(goqu.Ex{"tb.id": goqu.I("t.to_base_id")})).
		LeftJoin(goqu.T("transfer_items").As("i"), goqu.On(goqu.Ex{"i.transfer_id": goqu.I("t.id")})).
		Where(conditions)

	// A base filter matches either side of the transfer.
	if filter.BaseID != 0 {
		base = base.Where(goqu.Or(
			goqu.Ex{"t.from_base_id": filter.BaseID},
			goqu.Ex{"t.to_base_id": filter.BaseID},
		))
	}

	var total int
	if _, err := base.Select(goqu.COUNT(goqu.DISTINCT(goqu.I("t.id")))).Executor().ScanVal(&total); err != nil {
		return nil, 0, fmt.Errorf("unable to count transfers: %w", err)
	}

	order := goqu.I("t.transfer_date").Desc()
	if !filter.SortDesc {
		order = goqu.I("t.transfer_date").Asc()
	}

	query := base.SelectDistinct(
		goqu.I("t.id").As("id"),
		goqu.I("t.from_base_id").As("from_base_id"),
		goqu.I("fb.name").As("from_base_name"),
		goqu.I("t.to_base_id").As("to_base_id"),
		goqu.I("tb.name").As("to_base_name"),
		goqu.I("t.transfer_date").As("transfer_date"),
		goqu.I("t.invoice_no").As("invoice_no"),
		goqu.I("t.remarks").As("remarks"),
		goqu.I("t.created_at").As("created_at"),
	).
		Order(order, goqu.I("t.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset()))

	var transfers []models.Transfer
	if err := query.Executor().ScanStructs(&transfers); err != nil {
		return nil, 0, fmt.Errorf("unable to select transfers: %w", err)
	}

	for i := range transfers {
		items, err := r.GetTransferItems(transfers[i].ID)
		if err != nil {
			return nil, 0, err
		}
		transfers[i].Items = items
	}

	return transfers, total, nil
}

func (r *TransferRepository) transferQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("t.id").As("id"),
			goqu.I("t.from_base_id").As("from_base_id"),
			goqu.I("fb.name").As("from_base_name"),
			goqu.I("t.to_base_id").As("to_base_id"),
			goqu.I("tb.name").As("to_base_name"),
			goqu.I("t.transfer_date").As("transfer_date"),
			goqu.I("t.invoice_no").As("invoice_no"),
			goqu.I("t.remarks").As("remarks"),
			goqu.I("t.created_at").As("created_at"),
		).
		From(goqu.T("transfers").As("t")).
		Join(goqu.T("bases").As("fb"), goqu.On(goqu.Ex{"fb.id": goqu.I("t.from_base_id")})).
		Join(goqu.T("bases").As("tb"), goqu.On(goqu.Ex{"tb.id": goqu.I("t.to_base_id")}))
}
