package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	sq, closer, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "cache.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	mem, _, err := Open(ctx, "mem://", 8)
	require.NoError(t, err)

	return map[string]Store{"sqlite": sq, "mem": mem}
}

func TestStore(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := st.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Put(ctx, "k1", "<strong>a</strong>"))
			got, err := st.Get(ctx, "k1")
			require.NoError(t, err)
			assert.Equal(t, "<strong>a</strong>", got)

			// Put on an existing key replaces the markup.
			require.NoError(t, st.Put(ctx, "k1", "<em>a</em>"))
			got, err = st.Get(ctx, "k1")
			require.NoError(t, err)
			assert.Equal(t, "<em>a</em>", got)

			stats, err := st.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.Entries)
			assert.Equal(t, int64(2), stats.Hits)
			assert.Equal(t, int64(len("<em>a</em>")), stats.Bytes)
			assert.False(t, stats.Oldest.IsZero())

			n, err := st.Purge(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			_, err = st.Get(ctx, "k1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(2)
	require.NoError(t, st.Put(ctx, "a", "1"))
	require.NoError(t, st.Put(ctx, "b", "2"))
	require.NoError(t, st.Put(ctx, "c", "3"))

	_, err := st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := st.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestOpenRejectsUnknownDSN(t *testing.T) {
	_, _, err := Open(context.Background(), "postgres://x", 0)
	assert.Error(t, err)
}

func TestStoreConcurrentAccess(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const workers, rounds = 16, 50

			var wg sync.WaitGroup
			errs := make(chan error, workers*rounds*2)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < rounds; i++ {
						key := fmt.Sprintf("k%d", i%4)
						if err := st.Put(ctx, key, fmt.Sprintf("<p>%d</p>", w)); err != nil {
							errs <- err
						}
						if _, err := st.Get(ctx, key); err != nil {
							errs <- err
						}
					}
				}(w)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Fatalf("concurrent access failed: %v", err)
			}
			stats, err := st.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(4), stats.Entries)
			assert.Equal(t, int64(workers*rounds), stats.Hits)
		})
	}
}
