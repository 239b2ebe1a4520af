// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/query"
)

func TestStringSlice(t *testing.T) {
	values := url.Values{"genre": {"drama, comedy", "drama", " ", "rock"}}
	assert.Equal(t, []string{"drama", "comedy", "rock"}, query.StringSlice(values, "genre"))
	assert.Nil(t, query.StringSlice(values, "missing"))
}

func TestOptionalInt(t *testing.T) {
	values := url.Values{"year": {"1994"}, "bad": {"x"}}

	year, ok := query.OptionalInt(values, "year")
	assert.True(t, ok)
	assert.Equal(t, 1994, year)

	_, ok = query.OptionalInt(values, "bad")
	assert.False(t, ok)

	_, ok = query.OptionalInt(values, "missing")
	assert.False(t, ok)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, query.Dedupe([]string{"a", "b", "a"}))
	assert.Nil(t, query.Dedupe(nil))
}
