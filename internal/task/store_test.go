package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/storage"
)

// flakyKV wraps Memory and fails on demand.
type flakyKV struct {
	*storage.Memory
	failGet bool
	failSet bool
	sets    int
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("disk unreadable")
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	f.sets++
	return f.Memory.Set(ctx, key, value)
}

func newFlaky() *flakyKV {
	return &flakyKV{Memory: storage.NewMemory()}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	return NewStore(kv, WithIDFunc(sequentialIDs()))
}

func TestStore_CreateAndReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newTestStore(t, kv)

	due := Date{Year: 2025, Month: 3, Day: 14}
	created, err := s.Create(ctx, Draft{
		Title:    "  Buy milk  ",
		Priority: PriorityHigh,
		DueDate:  &due,
		Category: "Shopping",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	_, err = s.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)

	reloaded := NewStore(kv)
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, 1, reloaded.Len())

	got, ok := reloaded.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "Shopping", got.Category)
	assert.True(t, got.Completed)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
}

func TestStore_CreateDefaults(t *testing.T) {
	s := NewStore(storage.NewMemory(), WithDefaultCategory("Work"))

	created, err := s.Create(context.Background(), Draft{Title: "Write report"})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Equal(t, "Work", created.Category)
	assert.Nil(t, created.DueDate)
	assert.NotEmpty(t, created.ID)
}

func TestStore_CreateRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", title), func(t *testing.T) {
			kv := newFlaky()
			s := newTestStore(t, kv)

			_, err := s.Create(context.Background(), Draft{Title: title})
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, 0, kv.sets, "rejected create must not write")
		})
	}
}

func TestStore_CreateRejectsUnknownPriority(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	_, err := s.Create(context.Background(), Draft{Title: "x", Priority: "urgent"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, s.Len())
}

func TestStore_UniqueIDs(t *testing.T) {
	calls := 0
	ids := []string{"a", "a", "b"}
	s := NewStore(storage.NewMemory(), WithIDFunc(func() string {
		id := ids[calls]
		calls++
		return id
	}))
	ctx := context.Background()

	first, err := s.Create(ctx, Draft{Title: "one"})
	require.NoError(t, err)
	second, err := s.Create(ctx, Draft{Title: "two"})
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestStore_ToggleIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())
	created, err := s.Create(ctx, Draft{Title: "Walk dog"})
	require.NoError(t, err)

	ok, err := s.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	got, _ := s.Get(created.ID)
	assert.True(t, got.Completed)

	_, err = s.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	got, _ = s.Get(created.ID)
	assert.False(t, got.Completed)
}

func TestStore_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())
	created, err := s.Create(ctx, Draft{Title: "Draft", Priority: PriorityLow})
	require.NoError(t, err)
	_, err = s.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)

	due := Date{Year: 2026, Month: 1, Day: 2}
	ok, err := s.Update(ctx, created.ID, Draft{Title: "Final", Priority: PriorityHigh, DueDate: &due, Category: "Work"})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := s.Get(created.ID)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "Work", got.Category)
	assert.Equal(t, &due, got.DueDate)
	assert.True(t, got.Completed, "update keeps completion state")
}

func TestStore_UpdateUnknownIDIsNoop(t *testing.T) {
	kv := newFlaky()
	s := newTestStore(t, kv)
	_, err := s.Create(context.Background(), Draft{Title: "only"})
	require.NoError(t, err)
	before := s.Tasks()
	writes := kv.sets

	ok, err := s.Update(context.Background(), "missing", Draft{Title: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, writes, kv.sets)
}

func TestStore_UpdateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())
	created, err := s.Create(ctx, Draft{Title: "keep"})
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, Draft{Title: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
	got, _ := s.Get(created.ID)
	assert.Equal(t, "keep", got.Title)
}

func TestStore_DeletePreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, Draft{Title: title})
		require.NoError(t, err)
	}

	ok, err := s.Delete(ctx, "id-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, titles(s.Tasks()))
}

func TestStore_DeleteUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newFlaky()
	s := newTestStore(t, kv)
	for _, title := range []string{"a", "b"} {
		_, err := s.Create(ctx, Draft{Title: title})
		require.NoError(t, err)
	}
	before := s.Tasks()
	writes := kv.sets

	ok, err := s.Delete(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, writes, kv.sets)
}

func TestStore_ToggleUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newFlaky()
	s := newTestStore(t, kv)
	_, err := s.Create(ctx, Draft{Title: "a"})
	require.NoError(t, err)
	before := s.Tasks()
	writes := kv.sets

	ok, err := s.ToggleCompleted(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, writes, kv.sets)
}

func TestStore_TasksReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())
	due := Date{Year: 2025, Month: 5, Day: 1}
	_, err := s.Create(ctx, Draft{Title: "orig", DueDate: &due})
	require.NoError(t, err)

	out := s.Tasks()
	out[0].Title = "mutated"
	out[0].DueDate.Day = 30
	due.Day = 15

	got, _ := s.Get("id-1")
	assert.Equal(t, "orig", got.Title)
	assert.Equal(t, 1, got.DueDate.Day)
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := newFlaky()
	kv.failSet = true
	s := newTestStore(t, kv)

	created, err := s.Create(ctx, Draft{Title: "survives"})
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, "survives", created.Title)
	assert.Equal(t, 1, s.Len())

	kv.failSet = false
	require.NoError(t, s.Save(ctx))

	reloaded := NewStore(kv)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []string{"survives"}, titles(reloaded.Tasks()))
}

func TestStore_LoadMissingKeyIsEmpty(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{oops"},
		{"not an array", `{"id":"1"}`},
		{"null payload", "null"},
		{"null element", `[null]`},
		{"missing id", `[{"title":"a","priority":"low"}]`},
		{"missing title", `[{"id":"1","priority":"low"}]`},
		{"blank title", `[{"id":"1","title":"  "}]`},
		{"bad priority", `[{"id":"1","title":"a","priority":"urgent"}]`},
		{"bad date", `[{"id":"1","title":"a","dueDate":"tomorrow"}]`},
		{"duplicate id", `[{"id":"1","title":"a"},{"id":"1","title":"b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			s := newTestStore(t, kv)
			_, err := s.Create(ctx, Draft{Title: "existing"})
			require.NoError(t, err)

			require.NoError(t, kv.Set(ctx, DefaultKey, tt.payload))
			err = s.Load(ctx)
			require.ErrorIs(t, err, ErrReadFailed)
			assert.Equal(t, []string{"existing"}, titles(s.Tasks()))
		})
	}
}

func TestStore_LoadReadError(t *testing.T) {
	kv := newFlaky()
	kv.failGet = true
	s := newTestStore(t, kv)

	err := s.Load(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadFillsDefaultsAndIgnoresUnknownFields(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	payload := `[
		{"id":"1","title":"Old","dueDate":"2024-05-01T12:00:00.000Z","color":"red"},
		{"id":"2","title":"New","completed":true,"priority":"high","dueDate":null,"category":"Work"}
	]`
	require.NoError(t, kv.Set(ctx, DefaultKey, payload))

	s := NewStore(kv, WithDefaultCategory("Other"))
	require.NoError(t, s.Load(ctx))

	got := s.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, PriorityMedium, got[0].Priority)
	assert.Equal(t, "Other", got[0].Category)
	assert.False(t, got[0].Completed)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, "2024-05-01", got[0].DueDate.String())

	assert.True(t, got[1].Completed)
	assert.Equal(t, PriorityHigh, got[1].Priority)
	assert.Nil(t, got[1].DueDate)
}

func TestStore_CustomKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := NewStore(kv, WithKey("todo-v2"))
	_, err := s.Create(ctx, Draft{Title: "keyed"})
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, "todo-v2")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func titles(ts []Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}
