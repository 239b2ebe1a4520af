// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/importer"
)

func mustModel(t *testing.T, name string) importer.Model {
	t.Helper()
	model, ok := importer.Lookup(name)
	require.True(t, ok, name)
	return model
}

func TestLookup(t *testing.T) {
	for _, name := range importer.ModelNames() {
		_, ok := importer.Lookup(name)
		assert.True(t, ok, name)
	}

	_, ok := importer.Lookup(" Titles ")
	assert.True(t, ok)

	_, ok = importer.Lookup("chapters")
	assert.False(t, ok)
}

func TestParse_Titles(t *testing.T) {
	input := "\ufeffid,name,year,category\n1,Shawshank,1994,1\n2,Untitled,2001,\n"

	columns, rows, err := importer.Parse(strings.NewReader(input), mustModel(t, "titles"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "year", "categoryid"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{int64(1), "Shawshank", int16(1994), int64(1)}, rows[0])
	assert.Nil(t, rows[1][3])
}

func TestParse_UsersDefaultRole(t *testing.T) {
	input := "id,username,email,role,bio,first_name,last_name\n" +
		"100,bingobongo,bingobongo@yamdb.fake,,,,\n" +
		"101,loki1989,loki1989@yamdb.fake,moderator,,,\n"

	columns, rows, err := importer.Parse(strings.NewReader(input), mustModel(t, "users"))
	require.NoError(t, err)

	assert.Equal(t, "firstname", columns[5])
	assert.Equal(t, "user", rows[0][3])
	assert.Equal(t, "moderator", rows[1][3])
}

func TestParse_ReviewTimestamp(t *testing.T) {
	input := "id,title_id,text,author,score,pub_date\n1,1,Great,100,10,2019-09-24T21:08:21.567Z\n"

	columns, rows, err := importer.Parse(strings.NewReader(input), mustModel(t, "review"))
	require.NoError(t, err)

	assert.Equal(t, "authorid", columns[3])
	assert.Equal(t, int32(10), rows[0][4])
	assert.Equal(t, time.Date(2019, 9, 24, 21, 8, 21, 567000000, time.UTC), rows[0][5])
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		input   string
		wantErr string
	}{
		{"empty file", "genre", "", "empty file"},
		{"unknown column", "genre", "id,name,colour\n", `unknown column "colour"`},
		{"aliases collide", "titles", "id,category,category_id\n", "both map to categoryid"},
		{"bad integer", "genre", "id,name,slug\nx,Drama,drama\n", "line 2, column id"},
		{"bad role", "users", "id,username,email,role\n1,a,a@b.c,owner\n", `unknown role "owner"`},
		{"bad timestamp", "comments", "id,review_id,text,author,pub_date\n1,1,t,1,yesterday\n", "invalid timestamp"},
		{"ragged row", "genre", "id,name,slug\n1,Drama\n", "wrong number of fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := importer.Parse(strings.NewReader(tt.input), mustModel(t, tt.model))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
