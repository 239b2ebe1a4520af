// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// resourceTitle names the entity in NOT_FOUND errors.
const resourceTitle = "Title"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Read Model

/*
selectTitles is the hydrated projection shared by List and FindByID.

Description: Review count and score sum come from a LATERAL aggregate so the
rating is computed from the reviews present at read time. Genres are folded
into a JSON array to avoid N+1 lookups. The window count carries the total
number of matching rows for pagination.
*/
func selectTitles() string {
	return fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s, t.%s,
			c.%s, c.%s,
			r.review_count, r.score_sum,
			COALESCE((
				SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s gt ON g.%s = gt.%s
				WHERE gt.%s = t.%s
			), '[]') AS genres,
			COUNT(*) OVER() AS total_count
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS review_count, COALESCE(SUM(rv.%s), 0) AS score_sum
			FROM %s rv
			WHERE rv.%s = t.%s
		) r ON TRUE
		WHERE TRUE`,
		schema.Title.ID, schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
		schema.Category.Name, schema.Category.Slug,
		schema.Genre.Name, schema.Genre.Slug, schema.Genre.Slug,
		schema.Genre.Table,
		schema.GenreTitle.Table, schema.Genre.ID, schema.GenreTitle.GenreID,
		schema.GenreTitle.TitleID, schema.Title.ID,
		schema.Title.Table,
		schema.Category.Table, schema.Category.ID, schema.Title.CategoryID,
		schema.Review.Score,
		schema.Review.Table,
		schema.Review.TitleID, schema.Title.ID,
	)
}

// scanTitle reads one row of [selectTitles].
func scanTitle(row pgx.Row) (*Title, int, error) {
	title := &Title{}
	var (
		categoryName, categorySlug *string
		reviewCount, scoreSum      int64
		genresJSON                 []byte
		totalCount                 int
	)

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&categoryName,
		&categorySlug,
		&reviewCount,
		&scoreSum,
		&genresJSON,
		&totalCount,
	)
	if err != nil {
		return nil, 0, err
	}

	if title.CategoryID != nil && categorySlug != nil {
		title.Category = &taxonomy.Term{ID: *title.CategoryID, Name: *categoryName, Slug: *categorySlug}
	}

	title.Genres = []taxonomy.Term{}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_unmarshal_genres_failed: %w", err)
	}

	title.Rating = Rating(reviewCount, scoreSum)
	return title, totalCount, nil
}

/*
List returns a filtered, paginated slice of titles and the total count.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slugs, name fragment, year)
  - params: pagination.Params

Returns:
  - []*Title: Hydrated titles ordered by name
  - int: Total count matching filter
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitles())

	// Category Filtering
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.Category.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre Filtering (any of the given slugs)
	if len(filter.Genres) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s gt
				JOIN %s g ON g.%s = gt.%s
				WHERE gt.%s = t.%s AND g.%s = ANY($%d)
			)`,
			schema.GenreTitle.Table,
			schema.Genre.Table, schema.Genre.ID, schema.GenreTitle.GenreID,
			schema.GenreTitle.TitleID, schema.Title.ID, schema.Genre.Slug, argID))
		args = append(args, filter.Genres)
		argID++
	}

	// Name Filtering
	if name := strings.TrimSpace(filter.Name); name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE '%%' || $%d || '%%'", schema.Title.Name, argID))
		args = append(args, name)
		argID++
	}

	// Year Filtering
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.Title.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s ASC, t.%s ASC LIMIT $%d OFFSET $%d",
		schema.Title.Name, schema.Title.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_list_failed: %w", err)
	}
	defer rows.Close()

	titles := []*Title{}
	var totalCount int
	for rows.Next() {
		title, total, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_title_repo_scan_failed: %w", err)
		}
		totalCount = total
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_rows_failed: %w", err)
	}

	return titles, totalCount, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := selectTitles() + fmt.Sprintf(" AND t.%s = $1", schema.Title.ID)

	title, _, err := scanTitle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceTitle)
	}
	return title, nil
}

// # Writes

/*
Create inserts a title and its genre links in one transaction.

Returns:
  - error: *dberr.ForeignKeyViolation if a referenced category or genre
    vanished concurrently, otherwise execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	return postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
			schema.Title.Table,
			schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
			schema.Title.ID)

		err := transaction.QueryRow(context, query,
			record.Name, record.Year, record.Description, record.CategoryID,
		).Scan(&record.ID)
		if err != nil {
			return dberr.Wrap(err, resourceTitle)
		}

		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(context context.Context, record *Record) error {
	return postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
			schema.Title.Table,
			schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
			schema.Title.ID)

		tag, err := transaction.Exec(context, query,
			record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return dberr.Wrap(err, resourceTitle)
		}
		if tag.RowsAffected() == 0 {
			return dberr.Wrap(pgx.ErrNoRows, resourceTitle)
		}

		if !record.ReplaceGenres {
			return nil
		}
		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})
}

/*
replaceGenres swaps the genre links of a title for genreIDs.

Description: Clears the existing links and queues the new ones on a single
pgx.Batch inside the caller's transaction.
*/
func replaceGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.GenreTitle.Table, schema.GenreTitle.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, titleID); err != nil {
		return fmt.Errorf("postgres_title_repo_clear_genres_failed: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.GenreTitle.Table, schema.GenreTitle.TitleID, schema.GenreTitle.GenreID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, titleID, genreID)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, "Genre")
	}
	return nil
}

// Delete implements [Repository]. Dependent rows go through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Title.Table, schema.Title.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceTitle)
	}
	return nil
}

// # Slug Resolution

// CategoryIDs implements [Repository].
func (repository *PostgresRepository) CategoryIDs(context context.Context, slugs []string) (map[string]int64, error) {
	return repository.idsBySlug(context, schema.Category, slugs)
}

// GenreIDs implements [Repository].
func (repository *PostgresRepository) GenreIDs(context context.Context, slugs []string) (map[string]int64, error) {
	return repository.idsBySlug(context, schema.Genre, slugs)
}

func (repository *PostgresRepository) idsBySlug(context context.Context, table schema.TermTable, slugs []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(slugs))
	if len(slugs) == 0 {
		return ids, nil
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ANY($1)", table.Slug, table.ID, table.Table, table.Slug)
	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("postgres_title_repo_resolve_slugs_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		var id int64
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("postgres_title_repo_scan_slug_failed: %w", err)
		}
		ids[slug] = id
	}
	return ids, rows.Err()
}
