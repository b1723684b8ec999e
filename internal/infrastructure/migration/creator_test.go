package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add dispatch notes", "add_dispatch_notes"},
		{"Add-Dispatch-Notes", "add_dispatch_notes"},
		{"ADD_DISPATCH_NOTES", "add_dispatch_notes"},
		{"add__dispatch__notes", "add_dispatch_notes"},
		{"Add Column 123", "add_column_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_create_stock.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_create_stock.down.sql"), nil, 0o644))

	mf, err := CreateMigration(dir, "Add driver email", "")
	require.NoError(t, err)

	assert.Equal(t, uint(5), mf.Version)
	assert.Equal(t, filepath.Join(dir, "000005_add_driver_email.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000005_add_driver_email.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add driver email")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: add driver email")
}

func TestCreateMigration_EmptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	mf, err := CreateMigration(dir, "init", "Initial schema")
	require.NoError(t, err)
	assert.Equal(t, uint(1), mf.Version)
	assert.FileExists(t, filepath.Join(dir, "000001_init.up.sql"))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_fleet.up.sql":      {},
		"000001_identity.up.sql":   {},
		"000001_identity.down.sql": {},
		"README.md":                {},
		"notes.sql":                {},
	}

	entries, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Version: 1, Name: "identity", HasDown: true}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "fleet", HasDown: false}, entries[1])
}

func TestEmbeddedSchemaIsComplete(t *testing.T) {
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions must be contiguous")
		assert.True(t, e.HasDown, "migration %d has no down file", e.Version)
	}
}
