// Package seed loads the bundled reference data into an empty store.
package seed

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/bwmarrin/snowflake"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	"github.com/smallbiznis/geodata/internal/tabular"
	"github.com/smallbiznis/geodata/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dataDir       = "data"
	countriesFile = "countries.csv"
	zipCodesFile  = "zip_codes.csv"
)

//go:embed data
var bundled embed.FS

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     geodomain.Repository
	Importer importerdomain.Service
}

type Seeder struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     geodomain.Repository
	importer importerdomain.Service
	data     fs.FS
}

func New(p Params) *Seeder {
	sub, err := fs.Sub(bundled, dataDir)
	if err != nil {
		panic(err)
	}
	return &Seeder{
		db:       p.DB,
		log:      p.Log.Named("seed"),
		genID:    p.GenID,
		repo:     p.Repo,
		importer: p.Importer,
		data:     sub,
	}
}

// Summary counts what a run touched.
type Summary struct {
	Countries int
	Regions   int
	Cities    int
	ZipCodes  int
}

// EnsureReferenceData imports the bundled countries, then the regions,
// cities and zip codes of every country directory. Rows that already exist
// are updated in place, so running it twice changes nothing.
func (s *Seeder) EnsureReferenceData(ctx context.Context) (Summary, error) {
	var summary Summary

	res, err := s.importFile(ctx, countriesFile, importerdomain.EntityCountries, "")
	if err != nil {
		return summary, err
	}
	summary.Countries = res.Imported

	entries, err := fs.ReadDir(s.data, ".")
	if err != nil {
		return summary, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		country := entry.Name()

		res, err := s.importFile(ctx, path.Join(country, "regions.csv"), importerdomain.EntityRegions, country)
		if err != nil {
			return summary, err
		}
		summary.Regions += res.Imported

		res, err = s.importFile(ctx, path.Join(country, "cities.csv"), importerdomain.EntityCities, country)
		if err != nil {
			return summary, err
		}
		summary.Cities += res.Imported

		added, err := s.ensureZipCodes(ctx, country)
		if err != nil {
			return summary, err
		}
		summary.ZipCodes += added
	}

	s.log.Info("reference data seeded",
		zap.Int("countries", summary.Countries),
		zap.Int("regions", summary.Regions),
		zap.Int("cities", summary.Cities),
		zap.Int("zip_codes", summary.ZipCodes),
	)
	return summary, nil
}

func (s *Seeder) importFile(ctx context.Context, name string, entity importerdomain.Entity, country string) (*importerdomain.Result, error) {
	rows, err := s.readFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return &importerdomain.Result{Entity: entity}, nil
	}
	if err != nil {
		return nil, err
	}

	res, err := s.importer.Import(ctx, importerdomain.Request{
		Entity:      entity,
		CountryCode: country,
		Rows:        rows,
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", name, err)
	}
	return res, nil
}

// ensureZipCodes adds the zip codes listed for country, skipping codes the
// store already has.
func (s *Seeder) ensureZipCodes(ctx context.Context, countryCode string) (int, error) {
	rows, err := s.readFile(path.Join(countryCode, zipCodesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	country, err := s.repo.FindCountryByCode(ctx, s.db, countryCode)
	if err != nil {
		return 0, err
	}
	if country == nil {
		return 0, fmt.Errorf("seed zip codes: country %s not found", countryCode)
	}

	added := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		city, err := s.repo.FindCityByCode(ctx, s.db, country.ID, row[0])
		if err != nil {
			return added, err
		}
		if city == nil {
			return added, fmt.Errorf("seed zip codes: city %s not found in %s", row[0], countryCode)
		}

		err = s.repo.AddZipCode(ctx, s.db, &geodomain.ZipCode{
			ID:     s.genID.Generate(),
			CityID: city.ID,
			Code:   row[1],
		})
		if db.IsDuplicateKeyErr(err) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed zip code %s: %w", row[1], err)
		}
		added++
	}
	return added, nil
}

func (s *Seeder) readFile(name string) ([][]string, error) {
	raw, err := fs.ReadFile(s.data, name)
	if err != nil {
		return nil, err
	}
	return tabular.Read(bytes.NewReader(raw), name)
}
