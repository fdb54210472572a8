package domain

import (
	"context"
	"errors"
	"strings"
)

// Entity names one import pipeline.
type Entity string

const (
	EntityCountries Entity = "countries"
	EntityRegions   Entity = "regions"
	EntityCities    Entity = "cities"
)

var ErrUnsupportedEntity = errors.New("unsupported_entity")

func ParseEntity(raw string) (Entity, error) {
	switch e := Entity(strings.ToLower(strings.TrimSpace(raw))); e {
	case EntityCountries, EntityRegions, EntityCities:
		return e, nil
	default:
		return "", ErrUnsupportedEntity
	}
}

// Layout is the fixed column prefix of a pipeline. Columns from
// LanguageOffset on hold one translated name per language.
type Layout struct {
	Columns        []string
	LanguageOffset int
}

var layouts = map[Entity]Layout{
	EntityCountries: {Columns: []string{"code", "currency_code"}, LanguageOffset: 2},
	EntityRegions:   {Columns: []string{"code", "local_code", "country_code"}, LanguageOffset: 3},
	EntityCities:    {Columns: []string{"code", "region_code", "country_code"}, LanguageOffset: 3},
}

func (e Entity) Layout() Layout {
	return layouts[e]
}

// NeedsCountry reports whether the pipeline requires a country context.
func (e Entity) NeedsCountry() bool {
	return e == EntityRegions || e == EntityCities
}

// Request carries a decoded sheet: Rows[0] is the header row.
type Request struct {
	Entity      Entity
	CountryCode string
	Rows        [][]string
}

type Result struct {
	RunID        string `json:"run_id"`
	Entity       Entity `json:"entity"`
	Imported     int    `json:"imported"`
	Created      int    `json:"created"`
	Skipped      int    `json:"skipped"`
	Translations int    `json:"translations"`
}

type Service interface {
	// Import validates every row before writing any of them. A failed
	// validation returns a *ValidationError and leaves the store untouched.
	Import(ctx context.Context, req Request) (*Result, error)
}
