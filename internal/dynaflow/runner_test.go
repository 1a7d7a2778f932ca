package dynaflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmcore/pkg/domain"
)

func TestRequestPersistsAndEnqueues(t *testing.T) {
	e := newEnv(t)
	flow := e.request(t, PlantSampleWorkflow, `{"plant_id":"p-1"}`)

	assert.Equal(t, domain.DynaFlowStatusRequested, flow.Status)
	assert.False(t, flow.RequestedAt.IsZero())
	assert.Nil(t, flow.StartedAt)
	assert.Equal(t, 1, e.queue.Len())

	id, err := e.queue.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, flow.ID, id)
}

func TestRequestRejectsUnknownTypeAndBadParam(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.dispatcher.Request(ctx, FlowRequest{FlowType: "compost_workflow"})
	assert.ErrorIs(t, err, ErrUnknownFlowType)

	_, err = e.dispatcher.Request(ctx, FlowRequest{FlowType: PlantSampleWorkflow, Param: "{not json"})
	assert.ErrorIs(t, err, ErrInvalidParam)

	flows, err := e.svc.ListDynaFlows(ctx)
	require.NoError(t, err)
	assert.Empty(t, flows)
	assert.Zero(t, e.queue.Len())
}

func TestRunCompletesSampleWorkflow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flow := e.request(t, PlantSampleWorkflow, `{"plant_id":"p-9","message":"grow"}`)

	require.NoError(t, e.runner.Run(ctx, flow.ID))

	got, err := e.dispatcher.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusCompleted, got.Status)
	assert.True(t, got.IsSuccessful)
	assert.Equal(t, "plant_sample_task_2: grow", got.ResultValue)
	assert.Equal(t, "test-worker", got.ProcessorID)
	require.NotNil(t, got.StartedAt)
	require.NotNil(t, got.CompletedAt)

	tasks := e.tasks(t, flow.ID)
	require.Len(t, tasks, 2)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.Sequence)
		assert.Equal(t, domain.DynaFlowStatusCompleted, task.Status)
		assert.True(t, task.IsSuccessful)
		assert.NotNil(t, task.CompletedAt)
	}
	assert.Equal(t, PlantSampleTask1, tasks[0].TaskType)
	assert.Equal(t, PlantSampleTask2, tasks[1].TaskType)
	assert.Len(t, e.logger.messages("dyna flow task print"), 2)

	// A second delivery of the same ID is ignored.
	require.NoError(t, e.runner.Run(ctx, flow.ID))
	assert.Len(t, e.tasks(t, flow.ID), 2)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	e := newEnv(t, failingDefinition("failing_workflow"))
	ctx := context.Background()
	flow := e.request(t, "failing_workflow", "")

	require.NoError(t, e.runner.Run(ctx, flow.ID))

	got, err := e.dispatcher.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusFailed, got.Status)
	assert.False(t, got.IsSuccessful)
	assert.Contains(t, got.ResultValue, "soil too dry")

	tasks := e.tasks(t, flow.ID)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.DynaFlowStatusCompleted, tasks[0].Status)
	assert.Equal(t, domain.DynaFlowStatusFailed, tasks[1].Status)
	assert.Equal(t, "soil too dry", tasks[1].ResultValue)
}

func TestCancelBeforeStart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flow := e.request(t, PlantSampleWorkflow, "")

	canceled, err := e.dispatcher.Cancel(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusCanceled, canceled.Status)
	assert.True(t, canceled.IsCancelRequested)

	require.NoError(t, e.runner.Run(ctx, flow.ID))
	assert.Empty(t, e.tasks(t, flow.ID))

	_, err = e.dispatcher.Cancel(ctx, flow.ID)
	assert.ErrorIs(t, err, ErrFlowFinished)

	_, err = e.dispatcher.Cancel(ctx, "missing")
	assert.ErrorAs(t, err, new(domain.ErrNotFound))
}

func TestCancelWhileRunning(t *testing.T) {
	var e env
	def := Definition{
		FlowType: "cancel_workflow",
		Tasks: []Task{
			TaskFunc{TaskName: "first", Fn: func(ctx context.Context, tc TaskContext) (string, error) {
				_, err := e.dispatcher.Cancel(ctx, tc.Flow.ID)
				return "asked to stop", err
			}},
			TaskFunc{TaskName: "second", Fn: func(context.Context, TaskContext) (string, error) {
				panic("canceled flow must not continue")
			}},
		},
	}
	e = newEnv(t, def)
	ctx := context.Background()
	flow := e.request(t, "cancel_workflow", "")

	require.NoError(t, e.runner.Run(ctx, flow.ID))

	got, err := e.dispatcher.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusCanceled, got.Status)
	assert.False(t, got.IsSuccessful)
	assert.Equal(t, "canceled before second", got.ResultValue)
	assert.Len(t, e.tasks(t, flow.ID), 1)
}

func TestRunUnknownFlowTypeFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flow, _, err := e.svc.CreateDynaFlow(ctx, domain.DynaFlow{
		FlowType:    "retired_workflow",
		Status:      domain.DynaFlowStatusRequested,
		RequestedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, e.runner.Run(ctx, flow.ID))
	got, err := e.dispatcher.Get(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DynaFlowStatusFailed, got.Status)
	assert.Contains(t, got.ResultValue, "retired_workflow")

	assert.ErrorAs(t, e.runner.Run(ctx, "missing"), new(domain.ErrNotFound))
}

func TestRequeueOrdersByPriorityThenAge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	create := func(priority int, offset time.Duration, status domain.DynaFlowStatus) string {
		f, _, err := e.svc.CreateDynaFlow(ctx, domain.DynaFlow{
			FlowType:    PlantSampleWorkflow,
			Priority:    priority,
			Status:      status,
			RequestedAt: base.Add(offset),
		})
		require.NoError(t, err)
		return f.ID
	}
	low := create(1, 0, domain.DynaFlowStatusRequested)
	highOld := create(5, time.Minute, domain.DynaFlowStatusRequested)
	highNew := create(5, 2*time.Minute, domain.DynaFlowStatusRequested)
	create(9, 0, domain.DynaFlowStatusCompleted)

	n, err := e.dispatcher.Requeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var order []string
	for i := 0; i < n; i++ {
		id, err := e.queue.Dequeue(ctx)
		require.NoError(t, err)
		order = append(order, id)
	}
	assert.Equal(t, []string{highOld, highNew, low}, order)
}
