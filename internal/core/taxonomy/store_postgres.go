// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository stores one vocabulary in the table described by table.
type PostgresRepository struct {
	pool     *pgxpool.Pool
	table    schema.TermTable
	resource string
}

// NewPostgresRepository binds a store to table. resource labels NOT_FOUND errors.
func NewPostgresRepository(pool *pgxpool.Pool, table schema.TermTable, resource string) *PostgresRepository {
	return &PostgresRepository{pool: pool, table: table, resource: resource}
}

func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE`,
		strings.Join(repository.table.Columns(), ", "), repository.table.Table))

	if search = strings.TrimSpace(search); search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE '%%' || $%d || '%%'", repository.table.Name, argID))
		args = append(args, search)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", repository.table.Slug, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_taxonomy_repo_list_failed: %w", err)
	}
	defer rows.Close()

	terms := []*Term{}
	var totalCount int
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres_taxonomy_repo_scan_failed: %w", err)
		}
		terms = append(terms, term)
	}

	return terms, totalCount, rows.Err()
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(repository.table.Columns(), ", "), repository.table.Table, repository.table.Slug)

	term := &Term{}
	if err := repository.pool.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug); err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}
	return term, nil
}

func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		repository.table.Table, repository.table.Name, repository.table.Slug, repository.table.ID)

	if err := repository.pool.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID); err != nil {
		return dberr.Wrap(err, repository.resource)
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.table.Table, repository.table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return fmt.Errorf("postgres_taxonomy_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, repository.resource)
	}
	return nil
}
