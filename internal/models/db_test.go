package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"data/inkpress.db":                "data/inkpress.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		"file:cms.db?cache=shared":        "file:cms.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		"file:x?mode=memory&cache=shared": "file:x?mode=memory&cache=shared",
		":memory:":                        ":memory:",
		"cms.db?_pragma=foreign_keys(1)":  "cms.db?_pragma=foreign_keys(1)",
		"":                                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sqliteDSN(in), in)
	}
}

func TestOpenDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDialector("mysql", "dsn")
	assert.Error(t, err)

	dialector, err := OpenDialector(" SQLite ", ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", dialector.Name())
}

func TestInitDBMigratesFileDatabase(t *testing.T) {
	previous := DB
	t.Cleanup(func() { DB = previous })

	path := filepath.Join(t.TempDir(), "cms.db")
	require.NoError(t, InitDB("sqlite", path, DBPoolConfig{MaxOpenConns: 4, MaxIdleConns: 2}))
	require.NoError(t, AutoMigrate())
	assert.True(t, DB.Migrator().HasTable(&Revision{}))

	var mode string
	require.NoError(t, DB.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	sqlDB, err := DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
