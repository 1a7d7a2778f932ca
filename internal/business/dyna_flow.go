package business

import (
	"context"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// DynaFlowBusObj wraps a requested dyna flow.
type DynaFlowBusObj struct {
	busObj[domain.DynaFlow, *domain.DynaFlow]
}

func dynaFlowOps(svc *core.Service) ops[domain.DynaFlow] {
	return ops[domain.DynaFlow]{get: svc.GetDynaFlow, create: svc.CreateDynaFlow, update: svc.UpdateDynaFlow, delete: svc.DeleteDynaFlow}
}

// NewDynaFlow returns an unsaved DynaFlowBusObj.
func NewDynaFlow(svc *core.Service) *DynaFlowBusObj {
	b := &DynaFlowBusObj{}
	b.wrap(svc, dynaFlowOps(svc), domain.DynaFlow{}, false)
	return b
}

// LoadDynaFlow loads the dyna flow with the given ID.
func LoadDynaFlow(ctx context.Context, svc *core.Service, id string) (*DynaFlowBusObj, error) {
	b := NewDynaFlow(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapDynaFlow(svc *core.Service, v domain.DynaFlow) *DynaFlowBusObj {
	b := &DynaFlowBusObj{}
	b.wrap(svc, dynaFlowOps(svc), v, true)
	return b
}

// ListDynaFlows returns every stored dyna flow.
func ListDynaFlows(ctx context.Context, svc *core.Service) ([]*DynaFlowBusObj, error) {
	items, err := svc.ListDynaFlows(ctx)
	return wrapAll(items, err, func(v domain.DynaFlow) *DynaFlowBusObj { return wrapDynaFlow(svc, v) })
}

// SetTacID sets TacID.
func (b *DynaFlowBusObj) SetTacID(tacID string) *DynaFlowBusObj {
	b.rec.TacID = tacID
	return b
}

// SetFlowType sets FlowType.
func (b *DynaFlowBusObj) SetFlowType(flowType string) *DynaFlowBusObj {
	b.rec.FlowType = flowType
	return b
}

// SetDescription sets Description.
func (b *DynaFlowBusObj) SetDescription(description string) *DynaFlowBusObj {
	b.rec.Description = description
	return b
}

// SetParam sets Param.
func (b *DynaFlowBusObj) SetParam(param string) *DynaFlowBusObj {
	b.rec.Param = param
	return b
}

// SetPriority sets Priority.
func (b *DynaFlowBusObj) SetPriority(priority int) *DynaFlowBusObj {
	b.rec.Priority = priority
	return b
}

// SetStatus sets Status.
func (b *DynaFlowBusObj) SetStatus(status domain.DynaFlowStatus) *DynaFlowBusObj {
	b.rec.Status = status
	return b
}

// SetIsCancelRequested sets IsCancelRequested.
func (b *DynaFlowBusObj) SetIsCancelRequested(isCancelRequested bool) *DynaFlowBusObj {
	b.rec.IsCancelRequested = isCancelRequested
	return b
}

// SetRequestedAt sets RequestedAt.
func (b *DynaFlowBusObj) SetRequestedAt(requestedAt time.Time) *DynaFlowBusObj {
	b.rec.RequestedAt = requestedAt
	return b
}

// SetStartedAt sets StartedAt.
func (b *DynaFlowBusObj) SetStartedAt(startedAt *time.Time) *DynaFlowBusObj {
	if startedAt == nil {
		b.rec.StartedAt = nil
		return b
	}
	v := *startedAt
	b.rec.StartedAt = &v
	return b
}

// SetCompletedAt sets CompletedAt.
func (b *DynaFlowBusObj) SetCompletedAt(completedAt *time.Time) *DynaFlowBusObj {
	if completedAt == nil {
		b.rec.CompletedAt = nil
		return b
	}
	v := *completedAt
	b.rec.CompletedAt = &v
	return b
}

// SetIsSuccessful sets IsSuccessful.
func (b *DynaFlowBusObj) SetIsSuccessful(isSuccessful bool) *DynaFlowBusObj {
	b.rec.IsSuccessful = isSuccessful
	return b
}

// SetResultValue sets ResultValue.
func (b *DynaFlowBusObj) SetResultValue(resultValue string) *DynaFlowBusObj {
	b.rec.ResultValue = resultValue
	return b
}

// SetProcessorID sets ProcessorID.
func (b *DynaFlowBusObj) SetProcessorID(processorID string) *DynaFlowBusObj {
	b.rec.ProcessorID = processorID
	return b
}

// Tac loads the parent tac.
func (b *DynaFlowBusObj) Tac(ctx context.Context) (*TacBusObj, error) {
	return LoadTac(ctx, b.svc, b.rec.TacID)
}

// BuildDynaFlowTask returns an unsaved dyna flow task owned by b.
func (b *DynaFlowBusObj) BuildDynaFlowTask() *DynaFlowTaskBusObj {
	return NewDynaFlowTask(b.svc).SetDynaFlowID(b.ID())
}

// DynaFlowTasks lists the stored dyna flow tasks of b.
func (b *DynaFlowBusObj) DynaFlowTasks(ctx context.Context) ([]*DynaFlowTaskBusObj, error) {
	items, err := b.svc.ListDynaFlowTasksByFlow(ctx, b.ID())
	return wrapAll(items, err, func(v domain.DynaFlowTask) *DynaFlowTaskBusObj { return wrapDynaFlowTask(b.svc, v) })
}
