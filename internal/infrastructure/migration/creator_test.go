package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_box_index", sanitizeName("Add box-index"))
	assert.Equal(t, "v2_users", sanitizeName("  v2 -- users__"))
	assert.Equal(t, "", sanitizeName("!!!"))
}

func TestListMigrations(t *testing.T) {
	src := fstest.MapFS{
		"000010_ten.up.sql":   {},
		"000010_ten.down.sql": {},
		"000002_two.up.sql":   {},
		"README.md":           {},
	}
	entries, err := ListMigrations(src)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Version: 2, Name: "two"}, {Version: 10, Name: "ten"}}, entries)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions must be contiguous")
		_, err := fs.Stat(migrations.FS, fmt.Sprintf("%06d_%s.down.sql", e.Version, e.Name))
		assert.NoError(t, err, "missing down migration for %s", e.Name)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "Create users", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.FileExists(t, first.UpPath)
	assert.FileExists(t, first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: Create users")
	assert.Contains(t, string(up), "-- accounts")

	second, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
	assert.Equal(t, filepath.Join(dir, "000002_add_index.up.sql"), second.UpPath)

	_, err = CreateMigration(dir, "???", "")
	assert.Error(t, err)
}
