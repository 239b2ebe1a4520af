// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer loads seed data from CSV files into the database.

Each file carries a header row naming its columns. Rows are streamed into the
target table with COPY inside one transaction, so a bad row leaves the table
untouched. Explicit ids are preserved and the identity sequence is advanced
past them afterwards.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// ErrUnknownModel is returned for a model name missing from [Models].
var ErrUnknownModel = errors.New("importer: unknown model")

// Importer copies CSV files into their tables.
type Importer struct {
	pool   *pgxpool.Pool
	dir    string
	logger *slog.Logger
}

// New creates an [Importer] resolving relative file names under dir.
func New(pool *pgxpool.Pool, dir string, logger *slog.Logger) *Importer {
	return &Importer{pool: pool, dir: dir, logger: logger}
}

/*
Import loads file into the table behind model.

Parameters:
  - context: context.Context
  - file: string (absolute, or relative to the CSV directory)
  - model: string (one of [ModelNames])

Returns:
  - int64: Rows copied
  - error: Unknown model, unreadable file, bad header or row, or copy failure
*/
func (importer *Importer) Import(context context.Context, file string, model string) (int64, error) {
	definition, ok := Lookup(model)
	if !ok {
		return 0, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownModel, model, strings.Join(ModelNames(), ", "))
	}

	path := importer.resolve(file)
	handle, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("importer: cannot open %s: %w", path, err)
	}
	defer handle.Close()

	columns, rows, err := Parse(handle, definition)
	if err != nil {
		return 0, fmt.Errorf("importer: %s: %w", path, err)
	}

	var copied int64
	err = postgres.InTx(context, importer.pool, func(tx pgx.Tx) error {
		copied, err = tx.CopyFrom(context, identifier(definition.Table), columns, pgx.CopyFromRows(rows))
		if err != nil {
			return dberr.Wrap(err, definition.Name)
		}
		return advanceSequence(context, tx, definition)
	})
	if err != nil {
		return 0, fmt.Errorf("import_failed: %w", err)
	}

	importer.logger.Info("csv_imported",
		slog.String("model", definition.Name),
		slog.String("file", path),
		slog.Int64("rows", copied),
	)
	return copied, nil
}

// Lookup returns the model registered under name.
func Lookup(name string) (Model, bool) {
	definition, ok := Models[strings.ToLower(strings.TrimSpace(name))]
	return definition, ok
}

/*
Parse reads a CSV stream for definition.

It returns the target column names in header order and every row converted
to column values. Duplicate targets, unknown headers and conversion errors
are reported with their line number.
*/
func Parse(reader io.Reader, definition Model) ([]string, [][]any, error) {
	records := csv.NewReader(reader)
	records.TrimLeadingSpace = true

	header, err := records.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}

	mapping, columns, err := mapHeader(header, definition)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]any
	for {
		record, err := records.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		line, _ := records.FieldPos(0)
		row := make([]any, len(mapping))
		for index, column := range mapping {
			value, err := column.Convert(record[index])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d, column %s: %w", line, header[index], err)
			}
			row[index] = value
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

func mapHeader(header []string, definition Model) ([]Column, []string, error) {
	mapping := make([]Column, len(header))
	columns := make([]string, len(header))
	seen := make(map[string]string, len(header))

	for index, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		column, ok := definition.Headers[name]
		if !ok {
			return nil, nil, fmt.Errorf("unknown column %q for model %s", raw, definition.Name)
		}
		if previous, dup := seen[column.Name]; dup {
			return nil, nil, fmt.Errorf("columns %q and %q both map to %s", previous, raw, column.Name)
		}
		seen[column.Name] = raw
		mapping[index] = column
		columns[index] = column.Name
	}

	return mapping, columns, nil
}

func (importer *Importer) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(importer.dir, file)
}

// identifier splits "schema.table" into a quoted pgx identifier.
func identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// advanceSequence moves the identity sequence past the highest imported id.
func advanceSequence(context context.Context, tx pgx.Tx, definition Model) error {
	query := fmt.Sprintf(`
		SELECT setval(pg_get_serial_sequence('%[1]s', '%[2]s'), COALESCE(MAX(%[2]s), 1), MAX(%[2]s) IS NOT NULL)
		FROM %[1]s`,
		definition.Table, definition.Identity,
	)
	if _, err := tx.Exec(context, query); err != nil {
		return fmt.Errorf("advance_sequence_failed: %w", err)
	}
	return nil
}
