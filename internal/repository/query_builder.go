package repository

import "github.com/doug-martin/goqu/v9"

// QueryBuilder turns a filter state into goqu conditions. Aliases map the
// canonical filter keys onto the table columns of the querying repository.
type QueryBuilder interface {
	BuildConditions(aliases map[string]string) goqu.Ex
}
