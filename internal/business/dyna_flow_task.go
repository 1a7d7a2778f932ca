package business

import (
	"context"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// DynaFlowTaskBusObj wraps one task execution of a dyna flow.
type DynaFlowTaskBusObj struct {
	busObj[domain.DynaFlowTask, *domain.DynaFlowTask]
}

func dynaFlowTaskOps(svc *core.Service) ops[domain.DynaFlowTask] {
	return ops[domain.DynaFlowTask]{get: svc.GetDynaFlowTask, create: svc.CreateDynaFlowTask, update: svc.UpdateDynaFlowTask, delete: svc.DeleteDynaFlowTask}
}

// NewDynaFlowTask returns an unsaved DynaFlowTaskBusObj.
func NewDynaFlowTask(svc *core.Service) *DynaFlowTaskBusObj {
	b := &DynaFlowTaskBusObj{}
	b.wrap(svc, dynaFlowTaskOps(svc), domain.DynaFlowTask{}, false)
	return b
}

// LoadDynaFlowTask loads the dyna flow task with the given ID.
func LoadDynaFlowTask(ctx context.Context, svc *core.Service, id string) (*DynaFlowTaskBusObj, error) {
	b := NewDynaFlowTask(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapDynaFlowTask(svc *core.Service, v domain.DynaFlowTask) *DynaFlowTaskBusObj {
	b := &DynaFlowTaskBusObj{}
	b.wrap(svc, dynaFlowTaskOps(svc), v, true)
	return b
}

// ListDynaFlowTasks returns every stored dyna flow task.
func ListDynaFlowTasks(ctx context.Context, svc *core.Service) ([]*DynaFlowTaskBusObj, error) {
	items, err := svc.ListDynaFlowTasks(ctx)
	return wrapAll(items, err, func(v domain.DynaFlowTask) *DynaFlowTaskBusObj { return wrapDynaFlowTask(svc, v) })
}

// SetDynaFlowID sets DynaFlowID.
func (b *DynaFlowTaskBusObj) SetDynaFlowID(dynaFlowID string) *DynaFlowTaskBusObj {
	b.rec.DynaFlowID = dynaFlowID
	return b
}

// SetTaskType sets TaskType.
func (b *DynaFlowTaskBusObj) SetTaskType(taskType string) *DynaFlowTaskBusObj {
	b.rec.TaskType = taskType
	return b
}

// SetSequence sets Sequence.
func (b *DynaFlowTaskBusObj) SetSequence(sequence int) *DynaFlowTaskBusObj {
	b.rec.Sequence = sequence
	return b
}

// SetStatus sets Status.
func (b *DynaFlowTaskBusObj) SetStatus(status domain.DynaFlowStatus) *DynaFlowTaskBusObj {
	b.rec.Status = status
	return b
}

// SetStartedAt sets StartedAt.
func (b *DynaFlowTaskBusObj) SetStartedAt(startedAt *time.Time) *DynaFlowTaskBusObj {
	if startedAt == nil {
		b.rec.StartedAt = nil
		return b
	}
	v := *startedAt
	b.rec.StartedAt = &v
	return b
}

// SetCompletedAt sets CompletedAt.
func (b *DynaFlowTaskBusObj) SetCompletedAt(completedAt *time.Time) *DynaFlowTaskBusObj {
	if completedAt == nil {
		b.rec.CompletedAt = nil
		return b
	}
	v := *completedAt
	b.rec.CompletedAt = &v
	return b
}

// SetIsSuccessful sets IsSuccessful.
func (b *DynaFlowTaskBusObj) SetIsSuccessful(isSuccessful bool) *DynaFlowTaskBusObj {
	b.rec.IsSuccessful = isSuccessful
	return b
}

// SetResultValue sets ResultValue.
func (b *DynaFlowTaskBusObj) SetResultValue(resultValue string) *DynaFlowTaskBusObj {
	b.rec.ResultValue = resultValue
	return b
}

// DynaFlow loads the parent dyna flow.
func (b *DynaFlowTaskBusObj) DynaFlow(ctx context.Context) (*DynaFlowBusObj, error) {
	return LoadDynaFlow(ctx, b.svc, b.rec.DynaFlowID)
}
