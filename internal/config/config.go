package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"tasklist/internal/storage"
	"tasklist/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	appDirName            = "tasklist"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	FilterPriority string `toml:"filter_priority"`
	FilterCategory string `toml:"filter_category"`
	Sort           string `toml:"sort"`
	ClearFilters   string `toml:"clear_filters"`
	DueForward     string `toml:"due_forward"`
	DueBack        string `toml:"due_back"`
	DueToday       string `toml:"due_today"`
	DueClear       string `toml:"due_clear"`
}

type Storage struct {
	// Backend is one of sqlite, file or memory.
	Backend string `toml:"backend"`
	// Path is relative to the config file's directory unless absolute.
	Path string `toml:"path"`
	Key  string `toml:"key"`
}

type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type Config struct {
	Storage         Storage  `toml:"storage"`
	Categories      []string `toml:"categories"`
	DefaultCategory string   `toml:"default_category"`
	DefaultSort     string   `toml:"default_sort"`
	Log             Log      `toml:"log"`
	Keys            Keymap   `toml:"keys"`
}

// ResolveConfigPath returns <user config dir>/tasklist/config.toml, falling
// back to config.toml in the working directory.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative paths in the result are resolved against
// the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory:
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownBackend, c.Storage.Backend)
	}
	if strings.TrimSpace(c.DefaultCategory) == "" {
		return errors.New("default_category must not be empty")
	}
	if _, err := view.ParseSort(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	return nil
}

// HasCategory reports whether name is one of the configured categories.
func (c Config) HasCategory(name string) bool {
	return slices.Contains(c.Categories, name)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Storage.Key == "" {
		c.Storage.Key = def.Storage.Key
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = c.Categories[0]
	}
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

func (c Config) resolve(dir string) Config {
	c.Storage.Path = resolvePath(dir, c.Storage.Path)
	c.Log.Path = resolvePath(dir, c.Log.Path)
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend: storage.BackendSQLite,
			Path:    DefaultDBName,
			Key:     "tasks",
		},
		Categories:      []string{"Personal", "Work", "Shopping", "Health", "Other"},
		DefaultCategory: "Personal",
		DefaultSort:     "none",
		Log: Log{
			Path:  DefaultLogName,
			Level: "info",
		},
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Search:         "/",
			FilterPriority: "p",
			FilterCategory: "c",
			Sort:           "s",
			ClearFilters:   "x",
			DueForward:     "]",
			DueBack:        "[",
			DueToday:       "t",
			DueClear:       "x",
		},
	}
}
