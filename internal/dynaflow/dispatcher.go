package dynaflow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"farmcore/internal/business"
	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

var (
	// ErrInvalidParam is returned when a flow parameter is not valid JSON.
	ErrInvalidParam = errors.New("dyna flow param must be valid JSON")
	// ErrFlowFinished is returned when canceling a flow that already ended.
	ErrFlowFinished = errors.New("dyna flow already finished")
)

// FlowRequest describes a dyna flow to start.
type FlowRequest struct {
	TacID       string `json:"tac_id"`
	FlowType    string `json:"flow_type"`
	Description string `json:"description"`
	Param       string `json:"param"`
	Priority    int    `json:"priority"`
}

// Dispatcher persists flow requests and hands their IDs to a queue.
type Dispatcher struct {
	svc      *core.Service
	registry *Registry
	queue    Queue
	logger   core.Logger
}

// NewDispatcher wires a dispatcher. A nil registry means DefaultRegistry.
func NewDispatcher(svc *core.Service, registry *Registry, queue Queue) *Dispatcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Dispatcher{svc: svc, registry: registry, queue: queue, logger: svc.Logger()}
}

// Registry returns the flow definitions known to the dispatcher.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Request stores a new flow in status requested and enqueues it. When the
// enqueue fails the stored flow is returned with the error; Requeue picks it
// up later.
func (d *Dispatcher) Request(ctx context.Context, req FlowRequest) (domain.DynaFlow, error) {
	if _, ok := d.registry.Lookup(req.FlowType); !ok {
		return domain.DynaFlow{}, fmt.Errorf("%w: %q", ErrUnknownFlowType, req.FlowType)
	}
	if req.Param != "" && !gjson.Valid(req.Param) {
		return domain.DynaFlow{}, ErrInvalidParam
	}
	flow := business.NewDynaFlow(d.svc).
		SetTacID(req.TacID).
		SetFlowType(req.FlowType).
		SetDescription(req.Description).
		SetParam(req.Param).
		SetPriority(req.Priority).
		SetStatus(domain.DynaFlowStatusRequested).
		SetRequestedAt(d.svc.Now().UTC())
	if err := flow.Save(ctx); err != nil {
		return domain.DynaFlow{}, err
	}
	rec := flow.Record()
	if err := d.queue.Enqueue(ctx, rec.ID); err != nil {
		d.logger.Warn("dyna flow enqueue failed", "dyna_flow_id", rec.ID, "error", err)
		return rec, err
	}
	d.logger.Info("dyna flow requested", "dyna_flow_id", rec.ID, "flow_type", rec.FlowType, "tac_id", rec.TacID)
	return rec, nil
}

// Get returns a stored flow.
func (d *Dispatcher) Get(ctx context.Context, id string) (domain.DynaFlow, error) {
	return d.svc.GetDynaFlow(ctx, id)
}

// Tasks returns the task executions of a flow in sequence order.
func (d *Dispatcher) Tasks(ctx context.Context, id string) ([]domain.DynaFlowTask, error) {
	tasks, err := d.svc.ListDynaFlowTasksByFlow(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Sequence < tasks[j].Sequence })
	return tasks, nil
}

// Cancel flags the flow for cancellation. A flow still waiting in the queue
// is canceled at once; a started flow stops before its next task.
func (d *Dispatcher) Cancel(ctx context.Context, id string) (domain.DynaFlow, error) {
	now := d.svc.Now().UTC()
	flow, _, err := d.svc.UpdateDynaFlow(ctx, id, "", func(f *domain.DynaFlow) error {
		if f.Status.Terminal() {
			return fmt.Errorf("%w: %s is %s", ErrFlowFinished, f.ID, f.Status)
		}
		f.IsCancelRequested = true
		if f.Status == domain.DynaFlowStatusRequested {
			f.Status = domain.DynaFlowStatusCanceled
			f.CompletedAt = &now
			f.ResultValue = "canceled before start"
		}
		return nil
	})
	if err != nil {
		return domain.DynaFlow{}, err
	}
	d.logger.Info("dyna flow cancel requested", "dyna_flow_id", id, "status", string(flow.Status))
	return flow, nil
}

// Requeue enqueues every flow still in status requested, highest priority
// first, then oldest request first. It returns the number enqueued.
func (d *Dispatcher) Requeue(ctx context.Context) (int, error) {
	flows, err := d.svc.ListDynaFlowsByStatus(ctx, domain.DynaFlowStatusRequested)
	if err != nil {
		return 0, err
	}
	sort.SliceStable(flows, func(i, j int) bool {
		if flows[i].Priority != flows[j].Priority {
			return flows[i].Priority > flows[j].Priority
		}
		return flows[i].RequestedAt.Before(flows[j].RequestedAt)
	})
	for i, f := range flows {
		if err := d.queue.Enqueue(ctx, f.ID); err != nil {
			return i, err
		}
	}
	if len(flows) > 0 {
		d.logger.Info("dyna flows requeued", "count", len(flows))
	}
	return len(flows), nil
}
