package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/bcaiza/invoicePtoducts-sub000/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoices table", "add_invoices_table"},
		{"Add-Invoice-Lines", "add_invoice_lines"},
		{"ADD_TAX_RATE", "add_tax_rate"},
		{"add__tax__rate", "add_tax_rate"},
		{"Promotions 2", "promotions_2"},
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

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add promotion priority", "Adds a priority column")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_promotion_priority.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_promotion_priority.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add promotion priority")
	assert.Contains(t, string(up), "-- Adds a priority column")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: add promotion priority")

	second, err := CreateMigration(dir, "index invoices", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_create_customers.up.sql":   {Data: []byte("--")},
		"000002_create_customers.down.sql": {Data: []byte("--")},
		"000001_create_catalog.up.sql":     {Data: []byte("--")},
		"000001_create_catalog.down.sql":   {Data: []byte("--")},
		"000010_no_rollback.up.sql":        {Data: []byte("--")},
		"README.md":                        {Data: []byte("docs")},
		"notes.sql":                        {Data: []byte("--")},
		"subdir.up.sql/placeholder":        {Data: []byte("")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)

	assert.Equal(t, []Migration{
		{Version: 1, Name: "create_catalog", HasDown: true},
		{Version: 2, Name: "create_customers", HasDown: true},
		{Version: 10, Name: "no_rollback", HasDown: false},
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, m := range got {
		assert.Equal(t, uint(i+1), m.Version, "versions are contiguous")
		assert.True(t, m.HasDown, "migration %06d_%s has a down file", m.Version, m.Name)
	}
}
