// Package memory provides an in-memory implementation of the core persistence
// store used for tests, ephemeral environments and as the working set of the
// SQL-backed stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"farmcore/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.Transaction     = (*transaction)(nil)
	_ domain.TransactionView = transactionView{}
)

type (
	Change       = domain.Change
	Result       = domain.Result
	RulesEngine  = domain.RulesEngine
	Pac          = domain.Pac
	Tac          = domain.Tac
	Flavor       = domain.Flavor
	Land         = domain.Land
	Plant        = domain.Plant
	OrgAPIKey    = domain.OrgAPIKey
	DynaFlow     = domain.DynaFlow
	DynaFlowTask = domain.DynaFlowTask
)

type memoryState struct {
	pacs      map[string]Pac
	tacs      map[string]Tac
	flavors   map[string]Flavor
	lands     map[string]Land
	plants    map[string]Plant
	apiKeys   map[string]OrgAPIKey
	flows     map[string]DynaFlow
	flowTasks map[string]DynaFlowTask
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Pacs          []Pac          `json:"pacs"`
	Tacs          []Tac          `json:"tacs"`
	Flavors       []Flavor       `json:"flavors"`
	Lands         []Land         `json:"lands"`
	Plants        []Plant        `json:"plants"`
	OrgAPIKeys    []OrgAPIKey    `json:"org_api_keys"`
	DynaFlows     []DynaFlow     `json:"dyna_flows"`
	DynaFlowTasks []DynaFlowTask `json:"dyna_flow_tasks"`
}

func newMemoryState() memoryState {
	return memoryState{
		pacs:      make(map[string]Pac),
		tacs:      make(map[string]Tac),
		flavors:   make(map[string]Flavor),
		lands:     make(map[string]Land),
		plants:    make(map[string]Plant),
		apiKeys:   make(map[string]OrgAPIKey),
		flows:     make(map[string]DynaFlow),
		flowTasks: make(map[string]DynaFlowTask),
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		pacs:      cloneBucket(s.pacs, identity[Pac]),
		tacs:      cloneBucket(s.tacs, identity[Tac]),
		flavors:   cloneBucket(s.flavors, identity[Flavor]),
		lands:     cloneBucket(s.lands, identity[Land]),
		plants:    cloneBucket(s.plants, identity[Plant]),
		apiKeys:   cloneBucket(s.apiKeys, cloneAPIKey),
		flows:     cloneBucket(s.flows, cloneDynaFlow),
		flowTasks: cloneBucket(s.flowTasks, cloneDynaFlowTask),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	return Snapshot{
		Pacs:          sortedValues(state.pacs, identity[Pac]),
		Tacs:          sortedValues(state.tacs, identity[Tac]),
		Flavors:       sortedValues(state.flavors, identity[Flavor]),
		Lands:         sortedValues(state.lands, identity[Land]),
		Plants:        sortedValues(state.plants, identity[Plant]),
		OrgAPIKeys:    sortedValues(state.apiKeys, cloneAPIKey),
		DynaFlows:     sortedValues(state.flows, cloneDynaFlow),
		DynaFlowTasks: sortedValues(state.flowTasks, cloneDynaFlowTask),
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	fillBucket(state.pacs, s.Pacs, identity[Pac])
	fillBucket(state.tacs, s.Tacs, identity[Tac])
	fillBucket(state.flavors, s.Flavors, identity[Flavor])
	fillBucket(state.lands, s.Lands, identity[Land])
	fillBucket(state.plants, s.Plants, identity[Plant])
	fillBucket(state.apiKeys, s.OrgAPIKeys, cloneAPIKey)
	fillBucket(state.flows, s.DynaFlows, cloneDynaFlow)
	fillBucket(state.flowTasks, s.DynaFlowTasks, cloneDynaFlowTask)
	return state
}

func identity[T any](v T) T { return v }

func cloneAPIKey(k OrgAPIKey) OrgAPIKey {
	cp := k
	cp.RoleNames = append([]string(nil), k.RoleNames...)
	return cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDynaFlow(f DynaFlow) DynaFlow {
	cp := f
	cp.StartedAt = cloneTime(f.StartedAt)
	cp.CompletedAt = cloneTime(f.CompletedAt)
	return cp
}

func cloneDynaFlowTask(t DynaFlowTask) DynaFlowTask {
	cp := t
	cp.StartedAt = cloneTime(t.StartedAt)
	cp.CompletedAt = cloneTime(t.CompletedAt)
	return cp
}

// record is satisfied by pointers to every domain entity through the embedded Base.
type record[T any] interface {
	*T
	BaseFields() *domain.Base
}

func cloneBucket[T any](in map[string]T, clone func(T) T) map[string]T {
	out := make(map[string]T, len(in))
	for k, v := range in {
		out[k] = clone(v)
	}
	return out
}

func fillBucket[T any, P record[T]](bucket map[string]T, values []T, clone func(T) T) {
	for _, v := range values {
		id := P(&v).BaseFields().ID
		if id == "" {
			continue
		}
		bucket[id] = clone(v)
	}
}

// sortedValues returns the bucket values ordered by creation time, then ID.
func sortedValues[T any, P record[T]](bucket map[string]T, clone func(T) T) []T {
	out := make([]T, 0, len(bucket))
	for _, v := range bucket {
		out = append(out, clone(v))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := P(&out[i]).BaseFields(), P(&out[j]).BaseFields()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func find[T any](bucket map[string]T, id string, clone func(T) T) (T, bool) {
	v, ok := bucket[id]
	if !ok {
		var zero T
		return zero, false
	}
	return clone(v), true
}

// Option configures a Store.
type Option func(*Store)

// WithCommitHook installs a hook invoked with the transaction changes after
// rules pass and before the new state is published.
func WithCommitHook(hook domain.CommitHook) Option {
	return func(s *Store) { s.hook = hook }
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	hook   domain.CommitHook
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// SetCommitHook replaces the commit hook. SQL-backed stores install theirs
// after hydrating state.
func (s *Store) SetCommitHook(hook domain.CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// Resync replaces the state with the snapshot returned by load. The write
// lock is held while load runs, so no transaction commits in between.
func (s *Store) Resync(ctx context.Context, load func(context.Context) (Snapshot, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := load(ctx)
	if err != nil {
		return err
	}
	s.state = memoryStateFromSnapshot(snapshot)
	return nil
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store:  s,
		state:  s.state.clone(),
		now:    s.nowFn(),
		userID: domain.UserIDFromContext(ctx),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := transactionView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if s.hook != nil && len(tx.changes) > 0 {
		if err := s.hook(ctx, tx.changes); err != nil {
			return result, fmt.Errorf("commit hook: %w", err)
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(transactionView{state: &snapshot})
}
