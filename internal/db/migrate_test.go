package db

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farmer_registry/internal/config"
	"farmer_registry/internal/store"
)

func TestMigrate(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), store.GormConfig())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	log, hook := test.NewNullLogger()

	require.NoError(t, Migrate(gdb, log))
	// Running again is a no-op.
	require.NoError(t, Migrate(gdb, log))

	for _, table := range []string{"users", "farms"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex("users", "idx_users_phone_number"))
	assert.True(t, gdb.Migrator().HasIndex("farms", "idx_farms_user_id"))
	assert.Len(t, hook.AllEntries(), 2)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Open(&config.Config{DBDriver: "oracle"}, log)
	assert.ErrorContains(t, err, "unsupported database driver")
}
