// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list filters out of URL query strings.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// StringSlice collects every value of key, splitting comma-separated
// entries, trimming blanks and dropping duplicates while keeping order.
//
// Both `?genre=drama&genre=comedy` and `?genre=drama,comedy` yield
// [drama comedy].
func StringSlice(values url.Values, key string) []string {
	var result []string
	seen := make(map[string]struct{})
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			clean := strings.TrimSpace(part)
			if clean == "" {
				continue
			}
			if _, dup := seen[clean]; dup {
				continue
			}
			seen[clean] = struct{}{}
			result = append(result, clean)
		}
	}
	return result
}

// OptionalInt parses key as an integer. ok is false when the key is absent
// or malformed.
func OptionalInt(values url.Values, key string) (value int, ok bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Dedupe removes repeated entries, keeping the first occurrence.
func Dedupe(values []string) []string {
	var result []string
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
