package templates

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/entrhq/caselens/pkg/storage"
)

func TestPoller_TickNotifiesOnChange(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	store := NewStore(kv, nil)
	require.NoError(t, store.Init(ctx))
	editor := NewStore(kv, nil)
	require.NoError(t, editor.Init(ctx))

	var seen Snapshot
	calls := 0
	poller := NewPoller(store, time.Second, nil, WithOnChange(func(s Snapshot) {
		calls++
		seen = s
	}))

	poller.Tick()
	assert.Equal(t, 0, calls, "unchanged storage should not notify")

	require.NoError(t, editor.Upsert(ctx, custom(1)))
	poller.Tick()
	assert.Equal(t, 1, calls)
	assert.Contains(t, seen, "custom-1")
}

func TestPoller_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := NewStore(kv, nil)
	require.NoError(t, store.Init(ctx))
	editor := NewStore(kv, nil)
	require.NoError(t, editor.Init(ctx))

	var changes atomic.Int32
	poller := NewPoller(store, time.Second, nil, WithOnChange(func(Snapshot) {
		changes.Add(1)
	}))

	require.NoError(t, poller.Start(ctx))
	assert.Error(t, poller.Start(ctx), "second start should fail")

	require.NoError(t, editor.Upsert(ctx, custom(1)))

	assert.Eventually(t, func() bool {
		_, err := store.Get("custom-1")
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.Eventually(t, func() bool {
		return changes.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	poller.Stop()
	poller.Stop()
}
