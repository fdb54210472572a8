package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	for _, dbType := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Dialect(config.Config{DBType: dbType, DBPath: filepath.Join(t.TempDir(), "geo.db")})
		require.NoError(t, err, dbType)
		assert.Equal(t, dbType, d.Name())
	}

	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DBHost:     "db",
		DBUser:     "geo",
		DBPassword: "secret",
		DBName:     "geodata",
		DBPort:     "5432",
		DBSSLMode:  "disable",
	})
	assert.Equal(t, "host=db user=geo password=secret dbname=geodata port=5432 sslmode=disable TimeZone=UTC", dsn)
}

func TestPoolFrom(t *testing.T) {
	pool := PoolFrom(config.Config{DBMaxIdleConn: 2, DBMaxOpenConn: 4, DBConnMaxLifetime: 30, DBConnMaxIdleTime: 10})
	assert.Equal(t, 30*time.Second, pool.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, pool.ConnMaxIdleTime)
	assert.Equal(t, 4, pool.MaxOpenConn)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: countries.code")))
	assert.True(t, IsDuplicateKeyErr(errors.New(`ERROR: duplicate key value violates unique constraint "ux_countries_code"`)))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}

func TestDuplicateKey(t *testing.T) {
	assert.Empty(t, DuplicateKey(nil))
	assert.Empty(t, DuplicateKey(gorm.ErrDuplicatedKey))
	assert.Empty(t, DuplicateKey(errors.New("UNIQUE constraint failed: users.email")))
	assert.Equal(t, "zip code", DuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "ux_zip_codes_code" (SQLSTATE 23505)`)))
	assert.Equal(t, "city code", DuplicateKey(errors.New("Error 1062 (23000): Duplicate entry '1-BOG' for key 'cities.ux_cities_country_code'")))
	assert.Equal(t, "region code", DuplicateKey(errors.New("constraint failed: UNIQUE constraint failed: regions.country_id, regions.code (2067)")))
	assert.Equal(t, "country code", DuplicateKey(errors.New("constraint failed: UNIQUE constraint failed: countries.code (2067)")))
}

func TestDuplicateKey_SQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "geo.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("CREATE TABLE zip_codes (id INTEGER PRIMARY KEY, code TEXT NOT NULL)").Error)
	require.NoError(t, conn.Exec("CREATE UNIQUE INDEX ux_zip_codes_code ON zip_codes (code)").Error)

	require.NoError(t, conn.Exec("INSERT INTO zip_codes (id, code) VALUES (1, '110111')").Error)
	err = conn.Exec("INSERT INTO zip_codes (id, code) VALUES (2, '110111')").Error
	require.True(t, IsDuplicateKeyErr(err))
	assert.Equal(t, "zip code", DuplicateKey(err))
}
