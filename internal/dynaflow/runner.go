package dynaflow

import (
	"context"
	"errors"
	"fmt"
	"os"

	"farmcore/internal/business"
	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// errSkip aborts a status transition that no longer applies.
var errSkip = errors.New("dyna flow not runnable")

// Runner executes a stored flow's tasks one after another.
type Runner struct {
	svc         *core.Service
	registry    *Registry
	logger      core.Logger
	processorID string
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithProcessorID sets the identifier recorded on flows this runner starts.
func WithProcessorID(id string) RunnerOption {
	return func(r *Runner) {
		if id != "" {
			r.processorID = id
		}
	}
}

// NewRunner returns a runner over registry. A nil registry means DefaultRegistry.
func NewRunner(svc *core.Service, registry *Registry, opts ...RunnerOption) *Runner {
	if registry == nil {
		registry = DefaultRegistry()
	}
	host, _ := os.Hostname()
	r := &Runner{
		svc:         svc,
		registry:    registry,
		logger:      svc.Logger(),
		processorID: fmt.Sprintf("%s-%d", host, os.Getpid()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the flow with the given ID. Flows that are already started or
// finished are left alone. Task failures end the flow as failed and are not
// returned; the error is reserved for storage problems.
func (r *Runner) Run(ctx context.Context, id string) error {
	flow, canceled, err := r.start(ctx, id)
	if errors.As(err, new(domain.ErrNotFound)) {
		// Requested by another process after this one loaded its working set.
		reloaded, rerr := r.svc.Reload(ctx)
		if rerr != nil {
			return rerr
		}
		if reloaded {
			flow, canceled, err = r.start(ctx, id)
		}
	}
	switch {
	case errors.Is(err, errSkip):
		r.logger.Debug("dyna flow skipped", "dyna_flow_id", id)
		return nil
	case err != nil:
		return err
	case canceled:
		r.logger.Info("dyna flow canceled", "dyna_flow_id", id)
		return nil
	}

	def, ok := r.registry.Lookup(flow.FlowType)
	if !ok {
		return r.finish(ctx, id, domain.DynaFlowStatusFailed, fmt.Sprintf("%s: %q", ErrUnknownFlowType, flow.FlowType))
	}

	parent, err := business.LoadDynaFlow(ctx, r.svc, id)
	if err != nil {
		return r.abort(ctx, id, err)
	}
	last := ""
	for i, task := range def.Tasks {
		current, err := r.svc.GetDynaFlow(ctx, id)
		if err != nil {
			return r.abort(ctx, id, err)
		}
		if current.IsCancelRequested {
			return r.finish(ctx, id, domain.DynaFlowStatusCanceled, fmt.Sprintf("canceled before %s", task.Name()))
		}
		if err := ctx.Err(); err != nil {
			return r.finish(ctx, id, domain.DynaFlowStatusFailed, "interrupted: worker stopped")
		}
		result, err := r.runTask(ctx, parent, current, i+1, task)
		if err != nil {
			return r.finish(ctx, id, domain.DynaFlowStatusFailed, fmt.Sprintf("%s: %v", task.Name(), err))
		}
		last = result
	}
	return r.finish(ctx, id, domain.DynaFlowStatusCompleted, last)
}

// start moves a requested flow to started. canceled is true when the flow
// had a pending cancel request and was closed instead.
func (r *Runner) start(ctx context.Context, id string) (domain.DynaFlow, bool, error) {
	now := r.svc.Now().UTC()
	canceled := false
	flow, _, err := r.svc.UpdateDynaFlow(ctx, id, "", func(f *domain.DynaFlow) error {
		if f.Status != domain.DynaFlowStatusRequested {
			return errSkip
		}
		if f.IsCancelRequested {
			canceled = true
			f.Status = domain.DynaFlowStatusCanceled
			f.CompletedAt = &now
			f.ResultValue = "canceled before start"
			return nil
		}
		f.Status = domain.DynaFlowStatusStarted
		f.StartedAt = &now
		f.ProcessorID = r.processorID
		return nil
	})
	return flow, canceled, err
}

func (r *Runner) runTask(ctx context.Context, parent *business.DynaFlowBusObj, flow domain.DynaFlow, seq int, task Task) (string, error) {
	started := r.svc.Now().UTC()
	rec := parent.BuildDynaFlowTask().
		SetTaskType(task.Name()).
		SetSequence(seq).
		SetStatus(domain.DynaFlowStatusStarted).
		SetStartedAt(&started)
	if err := rec.Save(ctx); err != nil {
		return "", err
	}

	result, runErr := task.Run(ctx, TaskContext{Flow: flow, Task: rec.Record(), Logger: r.logger})
	completed := r.svc.Now().UTC()
	rec.SetCompletedAt(&completed)
	if runErr != nil {
		rec.SetStatus(domain.DynaFlowStatusFailed).SetIsSuccessful(false).SetResultValue(runErr.Error())
	} else {
		rec.SetStatus(domain.DynaFlowStatusCompleted).SetIsSuccessful(true).SetResultValue(result)
	}
	if err := rec.Save(ctx); err != nil {
		return "", err
	}
	r.logger.Debug("dyna flow task finished", "dyna_flow_id", flow.ID, "task", task.Name(), "sequence", seq, "duration", completed.Sub(started), "error", runErr)
	return result, runErr
}

// abort closes a started flow as failed after a storage error and returns
// that error.
func (r *Runner) abort(ctx context.Context, id string, cause error) error {
	if err := r.finish(ctx, id, domain.DynaFlowStatusFailed, "storage error: "+cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (r *Runner) finish(ctx context.Context, id string, status domain.DynaFlowStatus, result string) error {
	now := r.svc.Now().UTC()
	// Persist the outcome even when the worker context is already canceled.
	ctx = context.WithoutCancel(ctx)
	_, _, err := r.svc.UpdateDynaFlow(ctx, id, "", func(f *domain.DynaFlow) error {
		f.Status = status
		f.CompletedAt = &now
		f.IsSuccessful = status == domain.DynaFlowStatusCompleted
		f.ResultValue = result
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Info("dyna flow finished", "dyna_flow_id", id, "status", string(status), "result", result)
	return nil
}
