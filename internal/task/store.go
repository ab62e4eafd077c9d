package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasklist/internal/storage"
)

const (
	DefaultKey      = "tasks"
	DefaultCategory = "Personal"
)

// Store owns the task collection. Every state-changing call writes the whole
// collection back to the KV before returning.
//
// A Store is not safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	kv              storage.KV
	key             string
	defaultCategory string
	newID           func() string
	log             *zap.Logger
	tasks           []Task
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithDefaultCategory(c string) Option {
	return func(s *Store) {
		if c != "" {
			s.defaultCategory = c
		}
	}
}

// WithIDFunc replaces the UUID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:              kv,
		key:             DefaultKey,
		defaultCategory: DefaultCategory,
		newID:           uuid.NewString,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DefaultCategory() string { return s.defaultCategory }

// Load replaces the collection with the stored one. A missing key yields an
// empty collection. On error the collection is left untouched.
func (s *Store) Load(ctx context.Context) error {
	payload, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("load tasks", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	if !ok {
		s.tasks = nil
		s.log.Debug("no stored tasks", zap.String("key", s.key))
		return nil
	}
	tasks, err := decode(payload, s.defaultCategory)
	if err != nil {
		s.log.Warn("decode tasks", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	s.tasks = tasks
	s.log.Debug("loaded tasks", zap.Int("count", len(tasks)))
	return nil
}

// Save writes the whole collection under the store key.
func (s *Store) Save(ctx context.Context) error {
	payload, err := encode(s.tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		s.log.Warn("save tasks", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Create appends a new task. The returned task is valid even when the error
// wraps ErrWriteFailed; only ErrInvalidInput means nothing was added.
func (s *Store) Create(ctx context.Context, d Draft) (Task, error) {
	d, err := d.normalize(s.defaultCategory)
	if err != nil {
		return Task{}, err
	}
	id, err := s.allocateID()
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:       id,
		Title:    d.Title,
		Priority: d.Priority,
		DueDate:  d.DueDate,
		Category: d.Category,
	}
	s.tasks = append(s.tasks, t)
	s.log.Info("task created", zap.String("id", id), zap.String("priority", string(t.Priority)))
	return t.clone(), s.Save(ctx)
}

// Update replaces the editable fields of the task with the given id.
// It reports false, without writing, when no such task exists.
func (s *Store) Update(ctx context.Context, id string, d Draft) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	d, err := d.normalize(s.defaultCategory)
	if err != nil {
		return false, err
	}
	s.tasks[i] = Task{
		ID:        id,
		Title:     d.Title,
		Completed: s.tasks[i].Completed,
		Priority:  d.Priority,
		DueDate:   d.DueDate,
		Category:  d.Category,
	}
	s.log.Info("task updated", zap.String("id", id))
	return true, s.Save(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	s.log.Info("task deleted", zap.String("id", id))
	return true, s.Save(ctx)
}

func (s *Store) ToggleCompleted(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	t := s.tasks[i]
	t.Completed = !t.Completed
	s.tasks[i] = t
	s.log.Info("task toggled", zap.String("id", id), zap.Bool("completed", t.Completed))
	return true, s.Save(ctx)
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) allocateID() (string, error) {
	for range 3 {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique task id")
}
