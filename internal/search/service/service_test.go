package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/smallbiznis/geodata/internal/cache"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/geo/geotest"
	"github.com/smallbiznis/geodata/internal/geo/repository"
	"github.com/smallbiznis/geodata/internal/search/domain"
	"github.com/smallbiznis/geodata/internal/search/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db      *gorm.DB
	repo    geodomain.Repository
	fixture *geotest.Fixture
	svc     domain.Service
}

func newHarness(t *testing.T, searchCache cache.SearchCache) *harness {
	t.Helper()
	db := geotest.NewDB(t)
	repo := repository.Provide()
	return &harness{
		db:      db,
		repo:    repo,
		fixture: geotest.NewFixture(t, db, repo),
		svc: service.New(service.Params{
			DB:    db,
			Log:   zap.NewNop(),
			Repo:  repo,
			Cache: searchCache,
		}),
	}
}

func codes(items []domain.CityResponse) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}

func TestSearch_NoQueryReturnsEmpty(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	for _, lang := range geodomain.LanguageCodes() {
		for _, q := range []string{"", "ab", "  "} {
			got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: lang, Q: q})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
	}
}

func TestSearch_UnsupportedLanguage(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "xx", Q: "bog"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)

	_, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "xx"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage, "language is checked before the query")
}

func TestSearch_ByCityName(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "bog"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	bog := got[0]
	assert.Equal(t, "BOG", bog.Code)
	assert.Equal(t, "Bogota", bog.Name)
	assert.Equal(t, []string{"110111"}, bog.ZipCodes)
	require.Len(t, bog.Translations, 1)
	assert.Equal(t, "en", bog.Translations[0].LanguageCode)

	require.NotNil(t, bog.Region)
	assert.Equal(t, "CUN", bog.Region.Code)
	assert.Equal(t, "25", bog.Region.LocalCode)
	require.NotNil(t, bog.Country)
	assert.Equal(t, "CO", bog.Country.Code)
	assert.Equal(t, "COP", bog.Country.CurrencyCode)
	assert.Equal(t, "Colombia", bog.Country.Name)
}

func TestSearch_ExtraLanguageWidensMatchAndKeepsPrimaryDisplay(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "es", Q: "bogota"})
	require.NoError(t, err)
	assert.Empty(t, got, "the Spanish name is accented")

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "es", ExtraLanguage: "en", Q: "bogota"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bogotá", got[0].Name)
	assert.Len(t, got[0].Translations, 2)
}

func TestSearch_RegionOrCountrySegment(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "med, Antioquia"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MED"}, codes(got))

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "bog, Antioquia"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "med, co"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MED"}, codes(got), "second segment matches the country code")
}

func TestSearch_RegionAndCountrySegments(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "med, ANT, Colombia"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MED"}, codes(got))

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "med, ANT, Spain"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ZipCodeAndFilters(t *testing.T) {
	h := newHarness(t, nil)
	h.fixture.Colombia()

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "050001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MED"}, codes(got))

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "050001", Currency: "EUR"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "050001", Country: "colom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MED"}, codes(got))
}

func TestSearch_LimitIsClamped(t *testing.T) {
	h := newHarness(t, nil)
	co := h.fixture.Country("CO", geodomain.CurrencyColombianPeso, geotest.Names{geodomain.LanguageEnglish: "Colombia"})
	for i := 0; i < domain.MaxLimit+10; i++ {
		h.fixture.City(co, nil, fmt.Sprintf("T%02d", i), geotest.Names{
			geodomain.LanguageEnglish: fmt.Sprintf("Town %02d", i),
		})
	}

	got, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "town", Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, got, domain.MaxLimit)

	got, err = h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "town"})
	require.NoError(t, err)
	assert.Len(t, got, domain.DefaultLimit)

	again, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "town"})
	require.NoError(t, err)
	assert.Equal(t, codes(got), codes(again), "ordering is stable")
}

func TestSearch_ServesRepeatedRequestsFromCache(t *testing.T) {
	h := newHarness(t, cache.NewMemorySearchCache(time.Minute))
	_, _, med := h.fixture.Colombia()

	req := domain.SearchRequest{Language: "en", Q: "medellin"}
	first, err := h.svc.Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, h.repo.DeleteCity(context.Background(), h.db, med.ID))

	cached, err := h.svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	other, err := h.svc.Search(context.Background(), domain.SearchRequest{Language: "en", Q: "medellin", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, other, "a different limit is a different key")
}
