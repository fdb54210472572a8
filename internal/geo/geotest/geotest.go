// Package geotest builds in-memory stores for tests that need geographic data.
package geotest

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the geo schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Models()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// NewNode returns a snowflake node for fixture ids.
func NewNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// Names maps language codes to translated names.
type Names map[domain.Language]string

// Fixture inserts rows directly through the repository.
type Fixture struct {
	t    *testing.T
	db   *gorm.DB
	repo domain.Repository
	node *snowflake.Node
}

func NewFixture(t *testing.T, db *gorm.DB, repo domain.Repository) *Fixture {
	return &Fixture{t: t, db: db, repo: repo, node: NewNode(t)}
}

func (f *Fixture) Country(code string, currency domain.Currency, names Names) *domain.Country {
	f.t.Helper()
	country := &domain.Country{ID: f.node.Generate(), Code: code, CurrencyCode: currency}
	require.NoError(f.t, f.repo.CreateCountry(context.Background(), f.db, country))
	f.translate(domain.OwnerCountry, country.ID, names)
	return country
}

func (f *Fixture) Region(country *domain.Country, code, localCode string, names Names) *domain.Region {
	f.t.Helper()
	region := &domain.Region{ID: f.node.Generate(), CountryID: &country.ID, Code: code, LocalCode: localCode}
	require.NoError(f.t, f.repo.CreateRegion(context.Background(), f.db, region))
	f.translate(domain.OwnerRegion, region.ID, names)
	return region
}

// City creates a city in country, optionally inside region, with zip codes.
func (f *Fixture) City(country *domain.Country, region *domain.Region, code string, names Names, zips ...string) *domain.City {
	f.t.Helper()
	city := &domain.City{ID: f.node.Generate(), CountryID: country.ID, Code: code}
	if region != nil {
		city.RegionID = &region.ID
	}
	require.NoError(f.t, f.repo.CreateCity(context.Background(), f.db, city))
	f.translate(domain.OwnerCity, city.ID, names)
	for _, zip := range zips {
		require.NoError(f.t, f.repo.AddZipCode(context.Background(), f.db, &domain.ZipCode{
			ID:     f.node.Generate(),
			CityID: city.ID,
			Code:   zip,
		}))
	}
	return city
}

func (f *Fixture) translate(kind domain.OwnerKind, ownerID snowflake.ID, names Names) {
	f.t.Helper()
	for lang, name := range names {
		require.NoError(f.t, f.repo.UpsertTranslation(context.Background(), f.db, &domain.Translation{
			ID:           f.node.Generate(),
			LanguageCode: lang,
			OwnerType:    kind,
			OwnerID:      ownerID,
			Name:         name,
		}))
	}
}

// Colombia seeds CO with Antioquia (Medellin) and Cundinamarca (Bogota).
func (f *Fixture) Colombia() (*domain.Country, *domain.City, *domain.City) {
	f.t.Helper()
	co := f.Country("CO", domain.CurrencyColombianPeso, Names{
		domain.LanguageEnglish: "Colombia",
		domain.LanguageSpanish: "Colombia",
	})
	ant := f.Region(co, "ANT", "05", Names{
		domain.LanguageEnglish: "Antioquia",
		domain.LanguageSpanish: "Antioquia",
	})
	cun := f.Region(co, "CUN", "25", Names{
		domain.LanguageEnglish: "Cundinamarca",
		domain.LanguageSpanish: "Cundinamarca",
	})
	bog := f.City(co, cun, "BOG", Names{
		domain.LanguageEnglish: "Bogota",
		domain.LanguageSpanish: "Bogotá",
	}, "110111")
	med := f.City(co, ant, "MED", Names{
		domain.LanguageEnglish: "Medellin",
		domain.LanguageSpanish: "Medellín",
	}, "050001")
	return co, bog, med
}
