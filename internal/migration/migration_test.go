package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/geodata/internal/geo/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrate_AutoMigratesNonPostgres(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(conn, "sqlite"))
	for _, model := range domain.Models() {
		assert.True(t, conn.Migrator().HasTable(model))
	}
	assert.True(t, conn.Migrator().HasIndex(&domain.Translation{}, "ux_translations_language_owner"))
}

func TestMigrate_RequiresConnection(t *testing.T) {
	assert.Error(t, Migrate(nil, "sqlite"))
	assert.Error(t, RunMigrations(nil))
}
