package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/importer/domain"
	obscontext "github.com/smallbiznis/geodata/internal/observability/context"
	"github.com/smallbiznis/geodata/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/geodata/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    geodomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    geodomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("importer.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Import(ctx context.Context, req domain.Request) (*domain.Result, error) {
	entity, err := domain.ParseEntity(string(req.Entity))
	if err != nil {
		return nil, err
	}
	req.Entity = entity

	runID := ulid.Make().String()
	ctx = obscontext.WithRunID(ctx, runID)
	log := logger.WithContext(ctx, s.log).With(zap.String("entity", string(req.Entity)))

	p, problems, err := s.validate(ctx, req)
	if err != nil {
		log.Error("import validation failed", zap.Error(err))
		return nil, err
	}
	if len(problems) > 0 {
		s.metrics.RecordImportRejected(ctx, string(req.Entity))
		log.Info("import rejected", zap.Int("problems", len(problems)))
		return nil, &domain.ValidationError{Entity: req.Entity, Problems: problems}
	}

	result := &domain.Result{RunID: runID, Entity: req.Entity, Skipped: p.skipped}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range p.rows {
			ownerID, created, err := s.upsertEntity(ctx, tx, p, row)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			}
			result.Imported++

			n, err := s.upsertTranslations(ctx, tx, p, row, ownerID)
			if err != nil {
				return err
			}
			result.Translations += n
		}
		return nil
	})
	if err != nil {
		log.Error("import write failed", zap.Error(err))
		return nil, err
	}

	s.metrics.RecordImport(ctx, string(req.Entity), result.Imported)
	log.Info("import completed",
		zap.Int("imported", result.Imported),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("translations", result.Translations),
	)
	return result, nil
}

func (s *Service) upsertEntity(ctx context.Context, tx *gorm.DB, p *plan, row dataRow) (snowflake.ID, bool, error) {
	switch p.entity {
	case domain.EntityCountries:
		return s.upsertCountry(ctx, tx, row)
	case domain.EntityRegions:
		return s.upsertRegion(ctx, tx, p, row)
	default:
		return s.upsertCity(ctx, tx, p, row)
	}
}

func (s *Service) upsertCountry(ctx context.Context, tx *gorm.DB, row dataRow) (snowflake.ID, bool, error) {
	code := row.cell(0)
	currency := geodomain.Currency(row.cell(1))

	country, err := s.repo.FindCountryByCode(ctx, tx, code)
	if err != nil {
		return 0, false, err
	}
	if country != nil {
		country.CurrencyCode = currency
		return country.ID, false, s.repo.UpdateCountry(ctx, tx, country)
	}

	now := time.Now().UTC()
	country = &geodomain.Country{
		ID:           s.genID.Generate(),
		Code:         code,
		CurrencyCode: currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return country.ID, true, s.repo.CreateCountry(ctx, tx, country)
}

func (s *Service) upsertRegion(ctx context.Context, tx *gorm.DB, p *plan, row dataRow) (snowflake.ID, bool, error) {
	code := row.cell(0)
	localCode := row.cell(1)

	region, err := s.repo.FindRegionByCode(ctx, tx, p.country.ID, code)
	if err != nil {
		return 0, false, err
	}
	if region != nil {
		region.LocalCode = localCode
		return region.ID, false, s.repo.UpdateRegion(ctx, tx, region)
	}

	now := time.Now().UTC()
	region = &geodomain.Region{
		ID:        s.genID.Generate(),
		CountryID: &p.country.ID,
		Code:      code,
		LocalCode: localCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return region.ID, true, s.repo.CreateRegion(ctx, tx, region)
}

func (s *Service) upsertCity(ctx context.Context, tx *gorm.DB, p *plan, row dataRow) (snowflake.ID, bool, error) {
	code := row.cell(0)

	var regionID *snowflake.ID
	if region := p.regions[row.cell(1)]; region != nil {
		regionID = &region.ID
	}

	city, err := s.repo.FindCityByCode(ctx, tx, p.country.ID, code)
	if err != nil {
		return 0, false, err
	}
	if city != nil {
		city.RegionID = regionID
		return city.ID, false, s.repo.UpdateCity(ctx, tx, city)
	}

	now := time.Now().UTC()
	city = &geodomain.City{
		ID:        s.genID.Generate(),
		CountryID: p.country.ID,
		Code:      code,
		RegionID:  regionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return city.ID, true, s.repo.CreateCity(ctx, tx, city)
}

// upsertTranslations writes one name per header language and counts the
// non-blank ones.
func (s *Service) upsertTranslations(ctx context.Context, tx *gorm.DB, p *plan, row dataRow, ownerID snowflake.ID) (int, error) {
	owner := ownerKind(p.entity)
	now := time.Now().UTC()
	written := 0
	for _, col := range p.columns {
		name := row.cell(col.index)
		err := s.repo.UpsertTranslation(ctx, tx, &geodomain.Translation{
			ID:           s.genID.Generate(),
			LanguageCode: col.language,
			OwnerType:    owner,
			OwnerID:      ownerID,
			Name:         name,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return 0, err
		}
		if name != "" {
			written++
		}
	}
	return written, nil
}

func ownerKind(entity domain.Entity) geodomain.OwnerKind {
	switch entity {
	case domain.EntityCountries:
		return geodomain.OwnerCountry
	case domain.EntityRegions:
		return geodomain.OwnerRegion
	default:
		return geodomain.OwnerCity
	}
}
