package dynaflow

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmcore/internal/core"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/internal/infra/persistence/sqlite"
	"farmcore/pkg/domain"
)

var errViewsDown = errors.New("views unavailable")

// flakyStore fails reads while down is set; writes keep working.
type flakyStore struct {
	*memory.Store
	down atomic.Bool
}

func (s *flakyStore) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	if s.down.Load() {
		return errViewsDown
	}
	return s.Store.View(ctx, fn)
}

func TestRunFailsFlowOnStorageError(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.NewStore(core.NewDefaultRulesEngine())}
	svc := core.NewService(store)
	registry := DefaultRegistry()
	require.NoError(t, registry.Register(Definition{
		FlowType: "flaky",
		Tasks: []Task{
			TaskFunc{TaskName: "first", Fn: func(context.Context, TaskContext) (string, error) {
				store.down.Store(true)
				return "done", nil
			}},
			TaskFunc{TaskName: "second", Fn: func(context.Context, TaskContext) (string, error) {
				panic("must not run without a readable flow")
			}},
		},
	}))
	queue := NewChannelQueue(1)
	flow, err := NewDispatcher(svc, registry, queue).Request(ctx, FlowRequest{FlowType: "flaky"})
	require.NoError(t, err)

	err = NewRunner(svc, registry).Run(ctx, flow.ID)
	require.ErrorIs(t, err, errViewsDown)

	store.down.Store(false)
	got, err := svc.GetDynaFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusFailed, got.Status)
	assert.False(t, got.IsSuccessful)
	assert.NotNil(t, got.CompletedAt)
	assert.Contains(t, got.ResultValue, "storage error")
}

func TestRunPicksUpFlowRequestedByAnotherProcess(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "farm.db")
	open := func() *core.Service {
		store, err := sqlite.NewStore(path, core.NewDefaultRulesEngine())
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return core.NewService(store)
	}
	worker := open()
	requester := open()
	queue, _ := newRedisQueue(t)

	flow, err := NewDispatcher(requester, nil, queue).Request(ctx, FlowRequest{
		FlowType: PlantSampleWorkflow,
		Param:    `{"plant_id":"p-1"}`,
	})
	require.NoError(t, err)

	id, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, flow.ID, id)
	require.NoError(t, NewRunner(worker, nil).Run(ctx, id))

	got, err := worker.GetDynaFlow(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusCompleted, got.Status)
	tasks, err := worker.ListDynaFlowTasksByFlow(ctx, id)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestRunUnknownIDWithoutSharedStore(t *testing.T) {
	e := newEnv(t)
	reloaded, err := e.svc.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.ErrorAs(t, e.runner.Run(context.Background(), "missing"), new(domain.ErrNotFound))
}
