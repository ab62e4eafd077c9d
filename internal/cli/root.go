// Package cli provides the command-line interface. The root command opens the
// interactive list; subcommands work on the same store without a terminal UI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/ui"
)

// launchTUIFunc is a variable so tests can replace the interactive program.
var launchTUIFunc = ui.Run

// session holds everything a command needs once the config is read.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	kv      storage.KV
	store   *task.Store
	loadErr error
	closers []func() error
}

func (s *session) open(ctx context.Context, configPath string, ephemeral bool) (err error) {
	defer func() {
		if err != nil {
			_ = s.close()
		}
	}()
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}
	s.cfg = cfg

	log, closeLog, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	s.log = log
	s.closers = append(s.closers, closeLog)

	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	s.closers = append(s.closers, backend.Close)
	s.kv = backend

	s.store = task.NewStore(backend,
		task.WithKey(cfg.Storage.Key),
		task.WithDefaultCategory(cfg.DefaultCategory),
		task.WithLogger(log),
	)
	s.loadErr = s.store.Load(ctx)
	log.Info("session opened",
		zap.String("config", configPath),
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("tasks", s.store.Len()),
		zap.Error(s.loadErr),
	)
	return nil
}

func (s *session) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// writable refuses to mutate a collection that failed to load, so a corrupt
// payload is not overwritten by a one-shot command.
func (s *session) writable() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w; fix or remove the stored data first", s.loadErr)
	}
	return nil
}

// backupKey is where an unreadable payload is copied before the interactive
// list is allowed to replace it.
func (s *session) backupKey() string {
	return s.cfg.Storage.Key + ".corrupt"
}

func (s *session) backupPayload(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.cfg.Storage.Key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("nothing stored")
	}
	return s.kv.Set(ctx, s.backupKey(), raw)
}

func (s *session) startEmptyNotice(ctx context.Context) string {
	if err := s.backupPayload(ctx); err != nil {
		s.log.Warn("backup unreadable tasks", zap.Error(err))
		return fmt.Sprintf("Starting empty: %v. Saving will replace the stored data.", s.loadErr)
	}
	s.log.Info("backed up unreadable tasks", zap.String("key", s.backupKey()))
	return fmt.Sprintf("Starting empty: %v. Previous data kept under %q.", s.loadErr, s.backupKey())
}

func (s *session) noteCategory(cmd *cobra.Command, category string) {
	if category == "" || s.cfg.HasCategory(category) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Note: %q is not one of the configured categories (%s)\n",
		category, strings.Join(s.cfg.Categories, ", "))
}

// NewRootCommand creates the todo command tree.
func NewRootCommand(version string) *cobra.Command {
	var configPath string
	var ephemeral bool
	s := &session{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A local task list",
		Long: `todo keeps a list of tasks in local storage.

Run without arguments to open the interactive list. Use the subcommands
to add, list, edit, toggle or remove tasks from scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(cmd.Context(), configPath, ephemeral)
		},
		RunE: withSession(s, func(cmd *cobra.Command, _ []string) error {
			m := ui.New(cmd.Context(), s.store, s.cfg, s.log)
			if s.loadErr != nil {
				m = m.WithNotice(s.startEmptyNotice(cmd.Context()), true)
			}
			return launchTUIFunc(m)
		}),
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <user config dir>/tasklist/config.toml)")
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		newAddCommand(s),
		newListCommand(s),
		newEditCommand(s),
		newToggleCommand(s),
		newRemoveCommand(s),
	)
	return root
}

func withSession(s *session, fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := s.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}

// resolveID accepts a full id or an unambiguous prefix.
func resolveID(store *task.Store, ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, errors.New("task id is required")
	}
	if t, ok := store.Get(ref); ok {
		return t, nil
	}
	var matches []task.Task
	for _, t := range store.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("%q matches %d tasks; use a longer prefix", ref, len(matches))
	}
}

// shortID is the display form of an id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
