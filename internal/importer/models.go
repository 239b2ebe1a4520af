// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Converter turns one CSV cell into a value pgx can encode.
type Converter func(raw string) (any, error)

// Column binds a CSV header to a table column.
type Column struct {
	Name    string
	Convert Converter
}

// Model describes how one CSV file maps onto a table.
type Model struct {
	// Name is the model argument of import-csv.
	Name string
	// Table is the schema-qualified table name.
	Table string
	// Identity is the generated id column whose sequence is advanced after import.
	Identity string
	// Headers maps each accepted CSV header, aliases included, to its column.
	Headers map[string]Column
}

// # Converters

func asText(raw string) (any, error) { return raw, nil }

func asInt64(raw string) (any, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	return value, nil
}

func asInt16(raw string) (any, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid small integer %q", raw)
	}
	return int16(value), nil
}

func asInt32(raw string) (any, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	return int32(value), nil
}

// asNullableInt64 maps a blank cell to NULL.
func asNullableInt64(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return asInt64(raw)
}

// asNullableText maps a blank cell to NULL.
func asNullableText(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	return raw, nil
}

// asRole defaults a blank cell to [sec.RoleUser] and rejects unknown roles.
func asRole(raw string) (any, error) {
	role := sec.UserRole(strings.TrimSpace(raw))
	if role == "" {
		return string(sec.RoleUser), nil
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", raw)
	}
	return string(role), nil
}

func asBool(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", raw)
	}
	return value, nil
}

// timestampLayouts are tried in order for date cells.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asTimestamp(raw string) (any, error) {
	clean := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if value, err := time.Parse(layout, clean); err == nil {
			return value.UTC(), nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", raw)
}

// # Registry

// Models lists every importable model keyed by its import-csv name.
var Models = map[string]Model{
	"users": {
		Name:     "users",
		Table:    schema.UserAccount.Table,
		Identity: schema.UserAccount.ID,
		Headers: map[string]Column{
			"id":           {schema.UserAccount.ID, asInt64},
			"username":     {schema.UserAccount.Username, asText},
			"email":        {schema.UserAccount.Email, asText},
			"role":         {schema.UserAccount.Role, asRole},
			"bio":          {schema.UserAccount.Bio, asText},
			"first_name":   {schema.UserAccount.FirstName, asText},
			"last_name":    {schema.UserAccount.LastName, asText},
			"is_superuser": {schema.UserAccount.IsSuperuser, asBool},
		},
	},
	"category": {
		Name:     "category",
		Table:    schema.Category.Table,
		Identity: schema.Category.ID,
		Headers:  termHeaders(schema.Category),
	},
	"genre": {
		Name:     "genre",
		Table:    schema.Genre.Table,
		Identity: schema.Genre.ID,
		Headers:  termHeaders(schema.Genre),
	},
	"titles": {
		Name:     "titles",
		Table:    schema.Title.Table,
		Identity: schema.Title.ID,
		Headers: map[string]Column{
			"id":          {schema.Title.ID, asInt64},
			"name":        {schema.Title.Name, asText},
			"year":        {schema.Title.Year, asInt16},
			"description": {schema.Title.Description, asNullableText},
			"category":    {schema.Title.CategoryID, asNullableInt64},
			"category_id": {schema.Title.CategoryID, asNullableInt64},
		},
	},
	"genre_title": {
		Name:     "genre_title",
		Table:    schema.GenreTitle.Table,
		Identity: schema.GenreTitle.ID,
		Headers: map[string]Column{
			"id":       {schema.GenreTitle.ID, asInt64},
			"title_id": {schema.GenreTitle.TitleID, asInt64},
			"genre_id": {schema.GenreTitle.GenreID, asInt64},
		},
	},
	"review": {
		Name:     "review",
		Table:    schema.Review.Table,
		Identity: schema.Review.ID,
		Headers: map[string]Column{
			"id":        {schema.Review.ID, asInt64},
			"title_id":  {schema.Review.TitleID, asInt64},
			"text":      {schema.Review.Text, asText},
			"author":    {schema.Review.AuthorID, asInt64},
			"author_id": {schema.Review.AuthorID, asInt64},
			"score":     {schema.Review.Score, asInt32},
			"pub_date":  {schema.Review.PubDate, asTimestamp},
		},
	},
	"comments": {
		Name:     "comments",
		Table:    schema.Comment.Table,
		Identity: schema.Comment.ID,
		Headers: map[string]Column{
			"id":        {schema.Comment.ID, asInt64},
			"review_id": {schema.Comment.ReviewID, asInt64},
			"text":      {schema.Comment.Text, asText},
			"author":    {schema.Comment.AuthorID, asInt64},
			"author_id": {schema.Comment.AuthorID, asInt64},
			"pub_date":  {schema.Comment.PubDate, asTimestamp},
		},
	},
}

func termHeaders(table schema.TermTable) map[string]Column {
	return map[string]Column{
		"id":   {table.ID, asInt64},
		"name": {table.Name, asText},
		"slug": {table.Slug, asText},
	}
}

// ModelNames returns the accepted model names in import order.
func ModelNames() []string {
	return []string{"users", "category", "genre", "titles", "genre_title", "review", "comments"}
}
