package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CityFilter is the store-level form of a city search. Nil terms are absent.
type CityFilter struct {
	Languages   []Language
	CityTerm    *string
	RegionTerm  *string
	CountryTerm *string
	CountryName *string
	Currency    *string
	Limit       int
}

// Repository reads and writes the country/region/city hierarchy. Find methods
// return nil, nil when nothing matches.
type Repository interface {
	FindCountryByCode(ctx context.Context, db *gorm.DB, code string) (*Country, error)
	CreateCountry(ctx context.Context, db *gorm.DB, country *Country) error
	UpdateCountry(ctx context.Context, db *gorm.DB, country *Country) error
	ListCountries(ctx context.Context, db *gorm.DB) ([]Country, error)
	DeleteCountry(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindRegionByCode(ctx context.Context, db *gorm.DB, countryID snowflake.ID, code string) (*Region, error)
	CreateRegion(ctx context.Context, db *gorm.DB, region *Region) error
	UpdateRegion(ctx context.Context, db *gorm.DB, region *Region) error
	ListRegions(ctx context.Context, db *gorm.DB, countryID snowflake.ID) ([]Region, error)
	DeleteRegion(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindCityByCode(ctx context.Context, db *gorm.DB, countryID snowflake.ID, code string) (*City, error)
	CreateCity(ctx context.Context, db *gorm.DB, city *City) error
	UpdateCity(ctx context.Context, db *gorm.DB, city *City) error
	ListCities(ctx context.Context, db *gorm.DB, countryID snowflake.ID) ([]City, error)
	DeleteCity(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	AddZipCode(ctx context.Context, db *gorm.DB, zip *ZipCode) error

	// UpsertTranslation creates or renames the (language, owner) translation.
	// A blank name never creates one.
	UpsertTranslation(ctx context.Context, db *gorm.DB, translation *Translation) error

	// SearchCities returns matching cities ordered by id with translations
	// restricted to filter.Languages.
	SearchCities(ctx context.Context, db *gorm.DB, filter CityFilter) ([]City, error)
}

var (
	ErrInvalidZipCode = errors.New("invalid_zip_code")
	ErrInvalidOwner   = errors.New("invalid_translation_owner")
	ErrNotFound       = errors.New("not_found")
)
