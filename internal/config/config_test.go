package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "billfold.yaml")

	cfg := Default()
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Accounts.Debit, loaded.Accounts.Debit)
	assert.Equal(t, cfg.Keywords.Expense, loaded.Keywords.Expense)
	assert.Equal(t, cfg.Transfers.Keywords, loaded.Transfers.Keywords)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NotNil(t, cfg)

	// No config means no keyword tables: classification must fall through
	// to its fixed defaults. The account roster stays built-in.
	assert.Empty(t, cfg.Keywords.Expense)
	assert.Empty(t, cfg.Keywords.Income)
	assert.NotEmpty(t, cfg.Accounts.Debit)
	assert.NotEmpty(t, cfg.Transfers.Keywords)
}

func TestLoadOrDefault_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "billfold.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [not: valid"), 0o644))

	cfg := LoadOrDefault(path)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Keywords.Expense)
	assert.NotEmpty(t, cfg.Accounts.Credit)
}

func TestKeywordTableOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "billfold.yaml")

	yaml := `keywords:
  expense:
    - category: 甲
      subcategories: [外卖]
    - category: 乙
      subcategories: [外卖大餐]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Keywords.Expense, 2)
	assert.Equal(t, "甲", cfg.Keywords.Expense[0].Category)
	assert.Equal(t, "乙", cfg.Keywords.Expense[1].Category)
}
