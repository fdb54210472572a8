package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// uniqueKey names a geo unique constraint by its index and by the columns
// SQLite reports for it.
type uniqueKey struct {
	index   string
	columns string
	label   string
}

var uniqueKeys = []uniqueKey{
	{index: "ux_countries_code", columns: "countries.code", label: "country code"},
	{index: "ux_regions_country_code", columns: "regions.country_id, regions.code", label: "region code"},
	{index: "ux_cities_country_code", columns: "cities.country_id, cities.code", label: "city code"},
	{index: "ux_zip_codes_code", columns: "zip_codes.code", label: "zip code"},
	{index: "ux_translations_language_owner", columns: "translations.language_code, translations.owner_type, translations.owner_id", label: "translation"},
}

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") || // postgres 23505
		strings.Contains(msg, "Error 1062") || // mysql
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite 2067
}

// DuplicateKey labels the geo key a duplicate-key error collided on, e.g.
// "zip code". It is empty for other errors and unknown constraints.
func DuplicateKey(err error) string {
	if !IsDuplicateKeyErr(err) {
		return ""
	}
	msg := err.Error()
	for _, key := range uniqueKeys {
		if strings.Contains(msg, key.index) || strings.Contains(msg, "failed: "+key.columns) {
			return key.label
		}
	}
	return ""
}
