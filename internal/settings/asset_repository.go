package settings

import (
	"fmt"

	"armory/internal/repository"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type AssetRepository struct {
	repository *repository.Repository
}

func NewAssetRepository(r *repository.Repository) *AssetRepository {
	return &AssetRepository{repository: r}
}

func (r *AssetRepository) GetAssets() ([]models.Asset, error) {
	var assets []models.Asset
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "category", "unit", "description").
		From("assets").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

func (r *AssetRepository) GetAsset(id int) (*models.Asset, error) {
	var asset models.Asset
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "category", "unit", "description").
		From("assets").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetRepository) PersistAsset(asset *models.Asset) error {
	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"name":        asset.Name,
			"category":    asset.Category.String(),
			"unit":        asset.Unit,
			"description": asset.Description,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate asset name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert asset record: %w", err)
	}

	return nil
}

func (r *AssetRepository) UpdateAsset(id int, req models.AssetRequest) (*models.Asset, error) {
	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"name":        req.Name,
			"category":    req.Category,
			"unit":        req.Unit,
			"description": req.Description,
		}).
		Where(goqu.Ex{"id": id}).
		Returning("id", "name", "category", "unit", "description")

	var asset models.Asset
	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no asset found with id: %d", id)
	}

	return &asset, nil
}

func (r *AssetRepository) RemoveAsset(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("assets").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Asset is referenced by transactions", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no asset found with id: %d", id)
	}

	return nil
}
