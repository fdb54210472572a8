package service

import (
	"strings"
	"unicode/utf8"

	"github.com/smallbiznis/geodata/internal/search/domain"
)

const maxSegments = 3

// ParseQuery splits q into city, region-or-country and country segments.
// The last segment keeps any further commas.
func ParseQuery(raw string) domain.Query {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) < domain.MinQueryLength {
		return domain.Query{}
	}

	segments := strings.SplitN(raw, ",", maxSegments)
	slots := make([]*string, maxSegments)
	for i, segment := range segments {
		if segment = strings.TrimSpace(segment); segment != "" {
			slots[i] = &segment
		}
	}

	query := domain.Query{City: slots[0], Region: slots[1]}
	// a country segment only narrows an explicit region segment
	if query.Region != nil {
		query.Country = slots[2]
	}
	return query
}

// NormalizeLimit maps non-positive limits to the default and caps the rest.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultLimit
	case limit > domain.MaxLimit:
		return domain.MaxLimit
	default:
		return limit
	}
}
