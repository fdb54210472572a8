package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/geodata/internal/exporter/domain"
	"github.com/smallbiznis/geodata/internal/exporter/service"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/geo/geotest"
	"github.com/smallbiznis/geodata/internal/geo/repository"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	importerservice "github.com/smallbiznis/geodata/internal/importer/service"
	"github.com/smallbiznis/geodata/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db       *gorm.DB
	repo     geodomain.Repository
	fixture  *geotest.Fixture
	exporter domain.Service
	importer importerdomain.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := geotest.NewDB(t)
	repo := repository.Provide()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return &harness{
		db:       db,
		repo:     repo,
		fixture:  geotest.NewFixture(t, db, repo),
		exporter: service.New(service.Params{DB: db, Log: zap.NewNop(), Repo: repo}),
		importer: importerservice.New(importerservice.Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: repo}),
	}
}

func TestSheet_Countries(t *testing.T) {
	h := newHarness(t)
	h.fixture.Colombia()
	h.fixture.Country("ES", geodomain.CurrencyEuro, geotest.Names{geodomain.LanguageSpanish: "España"})

	rows, err := h.exporter.Sheet(context.Background(), domain.Request{Entity: importerdomain.EntityCountries})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"code", "currency_code", "en", "es"},
		{"CO", "COP", "Colombia", "Colombia"},
		{"ES", "EUR", "", "España"},
	}, rows)
}

func TestSheet_CitiesOfOneCountry(t *testing.T) {
	h := newHarness(t)
	co, _, _ := h.fixture.Colombia()
	pe := h.fixture.Country("PE", geodomain.CurrencyDollar, nil)
	h.fixture.City(pe, nil, "LIM", geotest.Names{geodomain.LanguageEnglish: "Lima"})
	h.fixture.City(co, nil, "CTG", geotest.Names{geodomain.LanguageEnglish: "Cartagena"})

	rows, err := h.exporter.Sheet(context.Background(), domain.Request{Entity: importerdomain.EntityCities, CountryCode: "CO"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"code", "region_code", "country_code", "en", "es"},
		{"BOG", "CUN", "CO", "Bogota", "Bogotá"},
		{"MED", "ANT", "CO", "Medellin", "Medellín"},
		{"CTG", "", "CO", "Cartagena", ""},
	}, rows)
}

func TestSheet_EmptyTemplate(t *testing.T) {
	h := newHarness(t)
	h.fixture.Colombia()

	rows, err := h.exporter.Sheet(context.Background(), domain.Request{Entity: importerdomain.EntityRegions, CountryCode: "CO", Empty: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"code", "local_code", "country_code", "en", "es"}}, rows)
}

func TestSheet_CountryContext(t *testing.T) {
	h := newHarness(t)

	_, err := h.exporter.Sheet(context.Background(), domain.Request{Entity: importerdomain.EntityCities})
	var missing *domain.MissingContextError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "You need to specify a country you want to download the cities for", err.Error())

	_, err = h.exporter.Sheet(context.Background(), domain.Request{Entity: importerdomain.EntityRegions, CountryCode: "PE", Empty: true})
	var refErr *importerdomain.ReferentialError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "PE", refErr.Code)
}

func TestExport_FileName(t *testing.T) {
	h := newHarness(t)
	h.fixture.Colombia()

	file, err := h.exporter.Export(context.Background(), domain.Request{Entity: "Regions", CountryCode: "CO", Format: tabular.FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "regions-co.csv", file.Name)
	assert.Equal(t, 2, file.Rows)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType())

	file, err = h.exporter.Export(context.Background(), domain.Request{Entity: importerdomain.EntityCountries, Empty: true})
	require.NoError(t, err)
	assert.Equal(t, "countries-template.xlsx", file.Name)
	assert.Zero(t, file.Rows)

	_, err = h.exporter.Export(context.Background(), domain.Request{Entity: importerdomain.EntityCountries, Format: "pdf"})
	assert.ErrorIs(t, err, tabular.ErrUnsupportedFormat)
}

type storeState struct {
	Countries    []map[string]any
	Regions      []map[string]any
	Cities       []map[string]any
	Translations []map[string]any
}

func snapshot(t *testing.T, db *gorm.DB) storeState {
	t.Helper()
	var s storeState
	require.NoError(t, db.Table("countries").Select("id, code, currency_code").Order("id").Find(&s.Countries).Error)
	require.NoError(t, db.Table("regions").Select("id, country_id, code, local_code").Order("id").Find(&s.Regions).Error)
	require.NoError(t, db.Table("cities").Select("id, country_id, region_id, code").Order("id").Find(&s.Cities).Error)
	require.NoError(t, db.Table("translations").Select("owner_type, owner_id, language_code, name").
		Order("owner_type, owner_id, language_code").Find(&s.Translations).Error)
	return s
}

func TestExportThenImportLeavesStoreUnchanged(t *testing.T) {
	h := newHarness(t)
	co, _, _ := h.fixture.Colombia()
	h.fixture.City(co, nil, "CAL", geotest.Names{geodomain.LanguageEnglish: "Cali"})
	ctx := context.Background()

	before := snapshot(t, h.db)
	require.Len(t, before.Translations, 11)

	for _, entity := range []importerdomain.Entity{
		importerdomain.EntityCountries,
		importerdomain.EntityRegions,
		importerdomain.EntityCities,
	} {
		for _, format := range []tabular.Format{tabular.FormatXLSX, tabular.FormatCSV} {
			file, err := h.exporter.Export(ctx, domain.Request{Entity: entity, CountryCode: "CO", Format: format})
			require.NoError(t, err)

			rows, err := tabular.Read(bytes.NewReader(file.Content), file.Name)
			require.NoError(t, err)

			res, err := h.importer.Import(ctx, importerdomain.Request{Entity: entity, CountryCode: "CO", Rows: rows})
			require.NoError(t, err, "entity %s as %s", entity, format)
			assert.Zero(t, res.Created)
		}
	}

	assert.Equal(t, before, snapshot(t, h.db))
}
