package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/smallbiznis/geodata/internal/cache"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	obsmetrics "github.com/smallbiznis/geodata/internal/observability/metrics"
	"github.com/smallbiznis/geodata/internal/search/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    geodomain.Repository
	Cache   cache.SearchCache   `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    geodomain.Repository
	cache   cache.SearchCache
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("search.service"),
		repo:    p.Repo,
		cache:   p.Cache,
		metrics: p.Metrics,
	}
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.CityResponse, error) {
	languages, err := ResolveLanguages(req.Language, req.ExtraLanguage)
	if err != nil {
		return nil, err
	}

	query := ParseQuery(req.Q)
	if query.Empty() {
		return []domain.CityResponse{}, nil
	}

	ctx, span := otel.Tracer("geodata/search").Start(ctx, "search.cities")
	defer span.End()

	filter := geodomain.CityFilter{
		Languages:   languages.Codes(),
		CityTerm:    query.City,
		RegionTerm:  query.Region,
		CountryTerm: query.Country,
		CountryName: optional(req.Country),
		Currency:    optional(req.Currency),
		Limit:       NormalizeLimit(req.Limit),
	}
	span.SetAttributes(
		attribute.String("search.language", string(languages.Primary)),
		attribute.Int("search.limit", filter.Limit),
	)

	key := cacheKey(filter)
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var cached []domain.CityResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				s.metrics.RecordSearch(ctx, string(languages.Primary), obsmetrics.CacheHit, len(cached))
				return cached, nil
			}
			s.log.Warn("discarding undecodable cached search", zap.String("key", key))
		}
	}

	cities, err := s.repo.SearchCities(ctx, s.db, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]domain.CityResponse, 0, len(cities))
	for _, city := range cities {
		out = append(out, cityResponse(city, languages))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, key, payload)
		}
	}

	outcome := obsmetrics.CacheMiss
	if s.cache == nil {
		outcome = obsmetrics.CacheBypass
	}
	s.metrics.RecordSearch(ctx, string(languages.Primary), outcome, len(out))
	span.SetAttributes(attribute.Int("search.results", len(out)))

	return out, nil
}

func cacheKey(filter geodomain.CityFilter) string {
	langs := make([]string, 0, len(filter.Languages))
	for _, l := range filter.Languages {
		langs = append(langs, string(l))
	}
	return cache.SearchKey(
		strings.Join(langs, ","),
		deref(filter.CityTerm),
		deref(filter.RegionTerm),
		deref(filter.CountryTerm),
		deref(filter.CountryName),
		deref(filter.Currency),
		strconv.Itoa(filter.Limit),
	)
}

func cityResponse(city geodomain.City, languages domain.LanguageFilter) domain.CityResponse {
	preferred := languages.Codes()

	zips := make([]string, 0, len(city.ZipCodes))
	for _, zip := range city.ZipCodes {
		zips = append(zips, zip.Code)
	}

	resp := domain.CityResponse{
		Code:         city.Code,
		Name:         geodomain.DisplayName(city.Translations, city.Code, preferred...),
		ZipCodes:     zips,
		Flag:         city.Flag,
		Translations: translations(city.Translations),
	}
	if city.Region != nil {
		resp.Region = &domain.RegionResponse{
			Code:         city.Region.Code,
			LocalCode:    city.Region.LocalCode,
			Name:         geodomain.DisplayName(city.Region.Translations, city.Region.Code, preferred...),
			Flag:         city.Region.Flag,
			Translations: translations(city.Region.Translations),
		}
	}
	if city.Country != nil {
		resp.Country = &domain.CountryResponse{
			Code:         city.Country.Code,
			CurrencyCode: string(city.Country.CurrencyCode),
			Name:         geodomain.DisplayName(city.Country.Translations, city.Country.Code, preferred...),
			Flag:         city.Country.Flag,
			Translations: translations(city.Country.Translations),
		}
	}
	return resp
}

func translations(items []geodomain.Translation) []domain.TranslationResponse {
	out := make([]domain.TranslationResponse, 0, len(items))
	for _, t := range items {
		out = append(out, domain.TranslationResponse{
			LanguageCode: string(t.LanguageCode),
			Name:         t.Name,
		})
	}
	return out
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
