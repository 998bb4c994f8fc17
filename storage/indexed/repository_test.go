package indexed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/stallbook/core"
	"github.com/poiesic/stallbook/storage"
	"github.com/poiesic/stallbook/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    string `msgpack:"id"`
	Body  string `msgpack:"body"`
	Count int    `msgpack:"count"`
}

func (n note) EntityID() string { return n.ID }

func newBackend(t *testing.T) *badger.Backend {
	t.Helper()
	backend, err := badger.NewQuietMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func newNotes(t *testing.T, seed ...note) (*Repository[note], storage.Substrate) {
	t.Helper()
	backend := newBackend(t)
	repo, err := New(backend, Config[note]{TypeName: "note", Seed: seed})
	require.NoError(t, err)
	return repo, backend
}

func ids(notes []note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	backend := newBackend(t)

	_, err := New[note](nil, Config[note]{TypeName: "note"})
	assert.ErrorIs(t, err, ErrSubstrateRequired)

	_, err = New(backend, Config[note]{})
	assert.ErrorIs(t, err, ErrInvalidTypeName)

	_, err = New(backend, Config[note]{TypeName: "a:b"})
	assert.ErrorIs(t, err, ErrInvalidTypeName)

	_, err = New(backend, Config[note]{TypeName: "note", IndexName: "x:y"})
	assert.ErrorIs(t, err, ErrInvalidTypeName)

	repo, err := New(backend, Config[note]{TypeName: "note"})
	require.NoError(t, err)
	assert.Equal(t, "note", repo.TypeName())
	assert.Equal(t, storage.IndexKey("notes"), repo.indexKey)
}

func TestCreateGet(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, note{ID: "a", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, note{ID: "a", Body: "hello"}, created)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	exists, err := repo.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "a", Body: "first"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, note{ID: "a", Body: "second"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Body)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_EmptyID(t *testing.T) {
	repo, _ := newNotes(t)

	_, err := repo.Create(context.Background(), note{Body: "orphan"})
	assert.ErrorIs(t, err, storage.ErrInvalidID)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newNotes(t)

	got, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, note{}, got)
}

func TestSave(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, "a", note{ID: "a"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.Create(ctx, note{ID: "a", Body: "v1"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, note{ID: "b", Body: "v1"})
	require.NoError(t, err)

	saved, err := repo.Save(ctx, "a", note{ID: "a", Body: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", saved.Body)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Body)

	// index order is unchanged by a save
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(all))

	_, err = repo.Save(ctx, "a", note{ID: "b", Body: "wrong"})
	assert.ErrorIs(t, err, storage.ErrInvalidID)
}

func TestMutate(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Mutate(ctx, "a", func(n note) (note, error) { return n, nil })
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.Create(ctx, note{ID: "a", Count: 1})
	require.NoError(t, err)

	updated, err := repo.Mutate(ctx, "a", func(n note) (note, error) {
		n.Count++
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Count)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}

func TestMutate_TransformErrorWritesNothing(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "a", Count: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Mutate(ctx, "a", func(n note) (note, error) {
		n.Count = 100
		return n, boom
	})
	assert.Same(t, boom, err)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestMutate_IDChangeRejected(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "a"})
	require.NoError(t, err)

	_, err = repo.Mutate(ctx, "a", func(n note) (note, error) {
		n.ID = "b"
		return n, nil
	})
	assert.ErrorIs(t, err, storage.ErrInvalidID)

	exists, err := repo.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMutate_ConcurrentIncrements(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "counter"})
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Mutate(ctx, "counter", func(n note) (note, error) {
				n.Count++
				return n, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, workers, got.Count)
}

func TestMutate_ConcurrentRatings(t *testing.T) {
	backend := newBackend(t)
	repo, err := New(backend, Config[core.Stall]{TypeName: "stall"})
	require.NoError(t, err)
	ctx := context.Background()

	id := core.NewID()
	_, err = repo.Create(ctx, core.Stall{ID: id, Name: "Ah Hock"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, v := range []float64{3, 5} {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			_, err := repo.Mutate(ctx, id, func(s core.Stall) (core.Stall, error) {
				s.Rating = core.CalculateNewRating(s.Rating, v)
				return s, nil
			})
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.Rating{Average: 4, Count: 2}, got.Rating)
}

func TestDelete(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "a"})
	require.NoError(t, err)

	existed, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestList_IndexOrder(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "d", "b"} {
		_, err := repo.Create(ctx, note{ID: id})
		require.NoError(t, err)
	}
	_, err := repo.Delete(ctx, "d")
	require.NoError(t, err)
	_, err = repo.Create(ctx, note{ID: "e"})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "e"}, ids(all))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestList_ConcurrentCreates(t *testing.T) {
	repo, _ := newNotes(t)
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, note{ID: fmt.Sprintf("n-%02d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, workers)
	assert.ElementsMatch(t, ids(all), func() []string {
		want := make([]string, workers)
		for i := range want {
			want[i] = fmt.Sprintf("n-%02d", i)
		}
		return want
	}())
}

func TestList_SkipsDanglingEntries(t *testing.T) {
	repo, backend := newNotes(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, backend.Update(ctx, func(tx storage.Txn) error {
		return writeIndex(tx, repo.indexKey, []string{"ghost", "a"})
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(all))

	existed, err := repo.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, existed)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureSeed(t *testing.T) {
	seed := []note{{ID: "s2", Body: "two"}, {ID: "s1", Body: "one"}}
	repo, _ := newNotes(t, seed...)
	ctx := context.Background()

	seeded, err := repo.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, all)
}

func TestEnsureSeed_NonEmptyRepositoryUntouched(t *testing.T) {
	repo, _ := newNotes(t, note{ID: "s1"})
	ctx := context.Background()

	_, err := repo.Create(ctx, note{ID: "mine"})
	require.NoError(t, err)

	seeded, err := repo.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, ids(all))
}

func TestEnsureSeed_Concurrent(t *testing.T) {
	repo, _ := newNotes(t, note{ID: "s1"}, note{ID: "s2"}, note{ID: "s3"})
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seeded, err := repo.EnsureSeed(ctx)
			assert.NoError(t, err)
			if seeded {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(all))
}

func TestEnsureSeed_InvalidSeed(t *testing.T) {
	ctx := context.Background()

	repo, _ := newNotes(t, note{ID: "s1"}, note{Body: "no id"})
	_, err := repo.EnsureSeed(ctx)
	assert.ErrorIs(t, err, storage.ErrInvalidID)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	repo, _ = newNotes(t, note{ID: "s1"}, note{ID: "s1"})
	_, err = repo.EnsureSeed(ctx)
	assert.ErrorIs(t, err, storage.ErrInvalidID)
}

func TestEnsureSeed_NoSeed(t *testing.T) {
	repo, _ := newNotes(t)

	seeded, err := repo.EnsureSeed(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestEnsureSeed_AfterEverythingDeleted(t *testing.T) {
	repo, _ := newNotes(t, note{ID: "s1"})
	ctx := context.Background()

	_, err := repo.EnsureSeed(ctx)
	require.NoError(t, err)
	_, err = repo.Delete(ctx, "s1")
	require.NoError(t, err)

	// an emptied repository is indistinguishable from a fresh one
	seeded, err := repo.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

// faultySubstrate fails every call with err after optionally letting the
// first passes calls through to the wrapped substrate.
type faultySubstrate struct {
	storage.Substrate
	err     error
	passes  int32
	updates atomic.Int32
}

func (f *faultySubstrate) View(ctx context.Context, fn func(tx storage.Txn) error) error {
	return fmt.Errorf("%w: disk gone", storage.ErrStorageUnavailable)
}

func (f *faultySubstrate) Update(ctx context.Context, fn func(tx storage.Txn) error) error {
	if f.updates.Add(1) <= f.passes {
		return f.Substrate.Update(ctx, fn)
	}
	return f.err
}

func TestRepository_StorageUnavailable(t *testing.T) {
	sub := &faultySubstrate{
		Substrate: newBackend(t),
		err:       fmt.Errorf("%w: disk gone", storage.ErrStorageUnavailable),
	}
	repo, err := New(sub, Config[note]{TypeName: "note", Seed: []note{{ID: "s"}}})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	_, err = repo.Exists(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	_, err = repo.Create(ctx, note{ID: "a"})
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	_, err = repo.Delete(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	_, err = repo.EnsureSeed(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)

	// unavailability is not retried
	assert.Equal(t, int32(3), sub.updates.Load())
}

func TestRepository_ConflictRetriesExhausted(t *testing.T) {
	sub := &faultySubstrate{
		Substrate: newBackend(t),
		err:       fmt.Errorf("%w: lost race", storage.ErrConflict),
	}
	repo, err := New(sub, Config[note]{TypeName: "note"}, WithMaxConflictRetries(4), WithRetryDelay(0))
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), note{ID: "a"})
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.Equal(t, int32(4), sub.updates.Load())
}

func TestRepository_ConflictRetrySucceeds(t *testing.T) {
	backend := newBackend(t)
	sub := &flakySubstrate{Substrate: backend, failures: 2}
	repo, err := New[note](sub, Config[note]{TypeName: "note"}, WithRetryDelay(0))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Create(ctx, note{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.calls)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestRepository_CanceledContext(t *testing.T) {
	repo, _ := newNotes(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, note{ID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

// flakySubstrate reports a conflict for the first failures updates.
type flakySubstrate struct {
	storage.Substrate
	failures int
	calls    int
}

func (f *flakySubstrate) Update(ctx context.Context, fn func(tx storage.Txn) error) error {
	f.calls++
	if f.calls <= f.failures {
		return storage.ErrConflict
	}
	return f.Substrate.Update(ctx, fn)
}
