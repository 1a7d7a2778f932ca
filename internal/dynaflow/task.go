// Package dynaflow runs requested dyna flows: persisted workflow requests whose
// tasks execute sequentially on a worker fed by a queue.
package dynaflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// ErrUnknownFlowType is returned for flow types without a registered definition.
var ErrUnknownFlowType = errors.New("unknown dyna flow type")

// TaskContext is handed to a running task.
type TaskContext struct {
	Flow   domain.DynaFlow
	Task   domain.DynaFlowTask
	Logger core.Logger
}

// Param reads a value from the flow parameter JSON.
func (tc TaskContext) Param(path string) gjson.Result {
	return gjson.Get(tc.Flow.Param, path)
}

// Task is one step of a dyna flow. The returned string is stored as the
// task result value.
type Task interface {
	Name() string
	Run(ctx context.Context, tc TaskContext) (string, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context, tc TaskContext) (string, error)
}

func (t TaskFunc) Name() string { return t.TaskName }

func (t TaskFunc) Run(ctx context.Context, tc TaskContext) (string, error) {
	return t.Fn(ctx, tc)
}

// Definition chains tasks under a flow type.
type Definition struct {
	FlowType    string
	Description string
	Tasks       []Task
}

// Validate checks the definition can be registered.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.FlowType) == "" {
		return fmt.Errorf("dyna flow type required")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("dyna flow %s: at least one task required", d.FlowType)
	}
	seen := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if t == nil || t.Name() == "" {
			return fmt.Errorf("dyna flow %s: task name required", d.FlowType)
		}
		if seen[t.Name()] {
			return fmt.Errorf("dyna flow %s: duplicate task %s", d.FlowType, t.Name())
		}
		seen[t.Name()] = true
	}
	return nil
}

// Registry holds the known flow definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// DefaultRegistry returns a registry holding the built-in flows.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.Register(PlantSampleDefinition()); err != nil {
		panic(err)
	}
	return r
}

// Register adds a definition, rejecting duplicates.
func (r *Registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.FlowType]; exists {
		return fmt.Errorf("dyna flow %s already registered", def.FlowType)
	}
	r.defs[def.FlowType] = def
	return nil
}

// Lookup returns the definition for flowType.
func (r *Registry) Lookup(flowType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[flowType]
	return def, ok
}

// FlowTypes lists registered flow types in name order.
func (r *Registry) FlowTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
