package core

import (
	"context"
	"fmt"
	"time"

	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// Service exposes higher-level transactional CRUD operations for the farm schema.
type Service struct {
	store   PersistentStore
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		store:   store,
		clock:   o.clock,
		logger:  o.logger,
		audit:   o.audit,
		metrics: o.metrics,
		tracer:  o.tracer,
	}
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Logger returns the configured logger.
func (s *Service) Logger() Logger {
	return s.logger
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

type operationMeta struct {
	entity EntityType
	action Action
}

var operationMetadata = func() map[string]operationMeta {
	out := make(map[string]operationMeta)
	for _, entity := range []EntityType{
		EntityPac, EntityTac, EntityFlavor, EntityLand, EntityPlant,
		EntityOrgAPIKey, EntityDynaFlow, EntityDynaFlowTask,
	} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			out[fmt.Sprintf("%s_%s", action, entity)] = operationMeta{entity: entity, action: action}
		}
	}
	return out
}()

// Run executes fn in a store transaction wrapped with tracing, metrics,
// logging and audit under the given operation name.
func (s *Service) Run(ctx context.Context, operation string, fn func(tx Transaction) error) (Result, error) {
	res, _, err := s.run(ctx, operation, func(tx Transaction) (string, error) {
		return "", fn(tx)
	})
	return res, err
}

func (s *Service) run(ctx context.Context, operation string, fn func(tx Transaction) (string, error)) (Result, string, error) {
	started := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, operation)
	var entityID string
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		id, err := fn(tx)
		entityID = id
		return err
	})
	duration := s.clock.Now().Sub(started)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)
	for _, v := range res.Violations {
		if v.Severity == SeverityBlock {
			continue
		}
		s.logger.Warn("rule violation", "operation", operation, "rule", v.Rule, "severity", string(v.Severity), "entity", string(v.Entity), "entity_id", v.EntityID, "message", v.Message)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "entity_id", entityID, "error", err)
		s.recordAudit(ctx, operation, entityID, duration, err)
		return res, entityID, err
	}
	s.logger.Debug("operation completed", "operation", operation, "entity_id", entityID, "duration", duration)
	s.recordAudit(ctx, operation, entityID, duration, nil)
	return res, entityID, nil
}

func (s *Service) recordAudit(ctx context.Context, operation, entityID string, duration time.Duration, err error) {
	meta, ok := operationMetadata[operation]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: operation,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		UserID:    domain.UserIDFromContext(ctx),
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// View runs fn against a read-only snapshot.
func (s *Service) View(ctx context.Context, fn func(TransactionView) error) error {
	return s.store.View(ctx, fn)
}

// record is satisfied by pointers to every domain entity through the embedded Base.
type record[T any] interface {
	*T
	BaseFields() *domain.Base
}

func mutate[T any, P record[T]](ctx context.Context, s *Service, operation string, fn func(Transaction) (T, error)) (T, Result, error) {
	var out T
	res, _, err := s.run(ctx, operation, func(tx Transaction) (string, error) {
		v, err := fn(tx)
		if err != nil {
			return "", err
		}
		out = v
		return P(&out).BaseFields().ID, nil
	})
	if err != nil {
		var zero T
		return zero, res, err
	}
	return out, res, nil
}

func remove(ctx context.Context, s *Service, operation, id string, fn func(Transaction, string) error) (Result, error) {
	res, _, err := s.run(ctx, operation, func(tx Transaction) (string, error) {
		return id, fn(tx, id)
	})
	return res, err
}

func get[T any](ctx context.Context, s *Service, entity EntityType, id string, find func(TransactionView, string) (T, bool)) (T, error) {
	var out T
	var found bool
	if err := s.store.View(ctx, func(v TransactionView) error {
		out, found = find(v, id)
		return nil
	}); err != nil {
		return out, err
	}
	if !found {
		return out, domain.ErrNotFound{Entity: entity, ID: id}
	}
	return out, nil
}

func list[T any](ctx context.Context, s *Service, all func(TransactionView) []T, keep func(T) bool) ([]T, error) {
	var out []T
	err := s.store.View(ctx, func(v TransactionView) error {
		for _, item := range all(v) {
			if keep == nil || keep(item) {
				out = append(out, item)
			}
		}
		return nil
	})
	return out, err
}
