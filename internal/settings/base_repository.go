package settings

import (
	"fmt"

	"armory/internal/repository"
	custom_error "armory/pkg/errors"
	"armory/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BaseRepository struct {
	repository *repository.Repository
}

func NewBaseRepository(r *repository.Repository) *BaseRepository {
	return &BaseRepository{repository: r}
}

func (r *BaseRepository) GetBases() ([]models.Base, error) {
	var bases []models.Base
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "district", "state").
		From("bases").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&bases); err != nil {
		return nil, fmt.Errorf("unable to select bases from database: %w", err)
	}

	return bases, nil
}

func (r *BaseRepository) PersistBase(base *models.Base) error {
	query := r.repository.GoquDBWrapper.Insert("bases").
		Rows(goqu.Record{
			"name":     base.Name,
			"district": base.District,
			"state":    base.State,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&base.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate base name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert base record: %w", err)
	}

	return nil
}

func (r *BaseRepository) UpdateBase(id int, req models.BaseRequest) (*models.Base, error) {
	query := r.repository.GoquDBWrapper.
		Update("bases").
		Set(goqu.Record{
			"name":     req.Name,
			"district": req.District,
			"state":    req.State,
		}).
		Where(goqu.Ex{"id": id}).
		Returning("id", "name", "district", "state")

	var base models.Base
	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		return nil, fmt.Errorf("failed to update base: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no base found with id: %d", id)
	}

	return &base, nil
}

func (r *BaseRepository) RemoveBase(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("bases").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Base still holds inventory", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete base: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no base found with id: %d", id)
	}

	return nil
}
