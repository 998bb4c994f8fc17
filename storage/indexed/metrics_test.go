package indexed

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/stallbook/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	repo, err := New(newBackend(t), Config[note]{TypeName: "note", Seed: []note{{ID: "s1"}, {ID: "s2"}}}, WithMetrics(metrics))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.EnsureSeed(ctx)
	require.NoError(t, err)
	_, err = repo.Create(ctx, note{ID: "a"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, note{ID: "a"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("note", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("note", "create", "already_exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("note", "get", "not_found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.seeded.WithLabelValues("note")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe("note", "get", time.Time{}, nil)
		m.conflict("note", "create")
		m.seed("note", 3)
	})
}
