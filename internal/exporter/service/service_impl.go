package service

import (
	"bytes"
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/geodata/internal/exporter/domain"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	obsmetrics "github.com/smallbiznis/geodata/internal/observability/metrics"
	"github.com/smallbiznis/geodata/internal/tabular"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    geodomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    geodomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("exporter.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Sheet(ctx context.Context, req domain.Request) ([][]string, error) {
	entity, err := importerdomain.ParseEntity(string(req.Entity))
	if err != nil {
		return nil, err
	}

	languages := geodomain.Languages()
	header := append(append([]string(nil), entity.Layout().Columns...), geodomain.LanguageCodes()...)
	rows := [][]string{header}

	var country *geodomain.Country
	if entity.NeedsCountry() {
		code := strings.TrimSpace(req.CountryCode)
		if code == "" {
			return nil, &domain.MissingContextError{Entity: entity}
		}
		country, err = s.repo.FindCountryByCode(ctx, s.db, code)
		if err != nil {
			return nil, err
		}
		if country == nil {
			return nil, &importerdomain.ReferentialError{Entity: importerdomain.EntityCountries, Code: code}
		}
	}
	if req.Empty {
		return rows, nil
	}

	switch entity {
	case importerdomain.EntityCountries:
		countries, err := s.repo.ListCountries(ctx, s.db)
		if err != nil {
			return nil, err
		}
		for _, c := range countries {
			rows = append(rows, withNames([]string{c.Code, string(c.CurrencyCode)}, c.Translations, languages))
		}
	case importerdomain.EntityRegions:
		regions, err := s.repo.ListRegions(ctx, s.db, country.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			rows = append(rows, withNames([]string{r.Code, r.LocalCode, country.Code}, r.Translations, languages))
		}
	case importerdomain.EntityCities:
		cities, err := s.repo.ListCities(ctx, s.db, country.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cities {
			regionCode := ""
			if c.Region != nil {
				regionCode = c.Region.Code
			}
			rows = append(rows, withNames([]string{c.Code, regionCode, country.Code}, c.Translations, languages))
		}
	}
	return rows, nil
}

func (s *Service) Export(ctx context.Context, req domain.Request) (*domain.File, error) {
	entity, err := importerdomain.ParseEntity(string(req.Entity))
	if err != nil {
		return nil, err
	}
	req.Entity = entity

	format, err := tabular.ParseFormat(string(req.Format))
	if err != nil {
		return nil, err
	}

	rows, err := s.Sheet(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tabular.Write(&buf, format, string(req.Entity), rows); err != nil {
		s.log.Error("render export", zap.String("entity", string(req.Entity)), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordExport(ctx, string(req.Entity), string(format), len(rows)-1)
	return &domain.File{
		Name:    fileName(req) + format.Extension(),
		Format:  format,
		Rows:    len(rows) - 1,
		Content: buf.Bytes(),
	}, nil
}

// fileName is e.g. "cities-co" or "countries-template".
func fileName(req domain.Request) string {
	parts := []string{string(req.Entity)}
	if req.Entity.NeedsCountry() {
		parts = append(parts, req.CountryCode)
	}
	if req.Empty {
		parts = append(parts, "template")
	}
	return slug.Make(strings.Join(parts, " "))
}

// withNames appends one cell per language, blank when untranslated.
func withNames(cells []string, translations []geodomain.Translation, languages []geodomain.Language) []string {
	for _, lang := range languages {
		name, _ := geodomain.TranslationName(translations, lang)
		cells = append(cells, name)
	}
	return cells
}
