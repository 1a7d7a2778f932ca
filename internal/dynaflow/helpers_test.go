package dynaflow

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.log("error", msg, args) }

func (l *captureLogger) messages(msg string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.msg == msg {
			out = append(out, e)
		}
	}
	return out
}

func (e logEntry) value(key string) any {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1]
		}
	}
	return nil
}

type env struct {
	svc        *core.Service
	logger     *captureLogger
	registry   *Registry
	queue      *ChannelQueue
	dispatcher *Dispatcher
	runner     *Runner
}

func newEnv(t *testing.T, defs ...Definition) env {
	t.Helper()
	logger := &captureLogger{}
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine(), core.WithLogger(logger))
	registry := DefaultRegistry()
	for _, def := range defs {
		require.NoError(t, registry.Register(def))
	}
	queue := NewChannelQueue(16)
	t.Cleanup(func() { _ = queue.Close() })
	return env{
		svc:        svc,
		logger:     logger,
		registry:   registry,
		queue:      queue,
		dispatcher: NewDispatcher(svc, registry, queue),
		runner:     NewRunner(svc, registry, WithProcessorID("test-worker")),
	}
}

func (e env) request(t *testing.T, flowType, param string) domain.DynaFlow {
	t.Helper()
	flow, err := e.dispatcher.Request(context.Background(), FlowRequest{FlowType: flowType, Param: param})
	require.NoError(t, err)
	return flow
}

func (e env) tasks(t *testing.T, id string) []domain.DynaFlowTask {
	t.Helper()
	tasks, err := e.dispatcher.Tasks(context.Background(), id)
	require.NoError(t, err)
	return tasks
}

func failingDefinition(flowType string) Definition {
	return Definition{
		FlowType: flowType,
		Tasks: []Task{
			TaskFunc{TaskName: "ok", Fn: func(context.Context, TaskContext) (string, error) { return "fine", nil }},
			TaskFunc{TaskName: "boom", Fn: func(context.Context, TaskContext) (string, error) {
				return "", fmt.Errorf("soil too dry")
			}},
			TaskFunc{TaskName: "never", Fn: func(context.Context, TaskContext) (string, error) {
				panic("must not run after a failure")
			}},
		},
	}
}
