package seed_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/smallbiznis/geodata/internal/geo/geotest"
	"github.com/smallbiznis/geodata/internal/geo/repository"
	importerservice "github.com/smallbiznis/geodata/internal/importer/service"
	"github.com/smallbiznis/geodata/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*seed.Seeder, *gorm.DB, geodomain.Repository) {
	t.Helper()
	db := geotest.NewDB(t)
	repo := repository.Provide()
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	importer := importerservice.New(importerservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	return seed.New(seed.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repo,
		Importer: importer,
	}), db, repo
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestEnsureReferenceData(t *testing.T) {
	s, db, repo := newSeeder(t)
	ctx := context.Background()

	summary, err := s.EnsureReferenceData(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Countries: 3, Regions: 6, Cities: 5, ZipCodes: 6}, summary)

	co, err := repo.FindCountryByCode(ctx, db, "CO")
	require.NoError(t, err)
	require.NotNil(t, co)
	assert.Equal(t, geodomain.CurrencyColombianPeso, co.CurrencyCode)

	med, err := repo.FindCityByCode(ctx, db, co.ID, "MED")
	require.NoError(t, err)
	require.NotNil(t, med)
	require.NotNil(t, med.RegionID)

	ant, err := repo.FindRegionByCode(ctx, db, co.ID, "ANT")
	require.NoError(t, err)
	require.NotNil(t, ant)
	assert.Equal(t, ant.ID, *med.RegionID)
	assert.Equal(t, "05", ant.LocalCode)

	var zips []string
	require.NoError(t, db.Model(&geodomain.ZipCode{}).Where("city_id = ?", med.ID).Pluck("code", &zips).Error)
	assert.Equal(t, []string{"050001"}, zips)
}

func TestEnsureReferenceData_Twice(t *testing.T) {
	s, db, _ := newSeeder(t)
	ctx := context.Background()

	_, err := s.EnsureReferenceData(ctx)
	require.NoError(t, err)

	before := []int64{
		count(t, db, &geodomain.Country{}),
		count(t, db, &geodomain.Region{}),
		count(t, db, &geodomain.City{}),
		count(t, db, &geodomain.ZipCode{}),
		count(t, db, &geodomain.Translation{}),
	}

	summary, err := s.EnsureReferenceData(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.ZipCodes)

	after := []int64{
		count(t, db, &geodomain.Country{}),
		count(t, db, &geodomain.Region{}),
		count(t, db, &geodomain.City{}),
		count(t, db, &geodomain.ZipCode{}),
		count(t, db, &geodomain.Translation{}),
	}
	assert.Equal(t, before, after)
	assert.Equal(t, int64(3+6+5)*2, after[4])
}
