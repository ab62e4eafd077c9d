package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/storage"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "config file created on first launch")

	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultLogName), cfg.Log.Path)
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.Equal(t, "Personal", cfg.DefaultCategory)
	assert.Equal(t, []string{"Personal", "Work", "Shopping", "Health", "Other"}, cfg.Categories)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again, "written defaults read back unchanged")
}

func TestLoadOrCreate_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
categories = ["Home", "Errands"]

[storage]
backend = "file"
path = "/var/lib/todo/tasks.json"

[keys]
quit = "Q"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/todo/tasks.json", cfg.Storage.Path)
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.Equal(t, []string{"Home", "Errands"}, cfg.Categories)
	assert.Equal(t, "Personal", cfg.DefaultCategory, "explicit default survives custom categories")
	assert.Equal(t, "Q", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add)
}

func TestLoadOrCreate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "storage = ["},
		{"unknown backend", "[storage]\nbackend = \"redis\"\n"},
		{"blank default category", "default_category = \"  \"\n"},
		{"unknown default sort", "default_sort = \"alphabetical\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadOrCreate(path)
			assert.Error(t, err)
		})
	}
}

func TestValidate_DefaultSort(t *testing.T) {
	cfg := Default()
	for _, v := range []string{"none", "due", "priority", ""} {
		cfg.DefaultSort = v
		assert.NoError(t, cfg.Validate(), v)
	}
	cfg.DefaultSort = "alphabetical"
	assert.ErrorContains(t, cfg.Validate(), "default_sort")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/cfg", "todo.db"), resolvePath("/cfg", "todo.db"))
	assert.Equal(t, "/abs/todo.db", resolvePath("/cfg", "/abs/todo.db"))
	assert.Equal(t, "file:memdb?mode=memory", resolvePath("/cfg", "file:memdb?mode=memory"))
	assert.Equal(t, "", resolvePath("/cfg", ""))
}

func TestHasCategory(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasCategory("Work"))
	assert.False(t, cfg.HasCategory("work"))
}
