// Package business wraps domain records in business objects: fluent setters,
// load/save/delete through core.Service, and navigation between parents and
// children.
package business

import (
	"context"
	"errors"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// ErrNotLoaded is returned when an operation needs a persisted record.
var ErrNotLoaded = errors.New("business object has not been saved or loaded")

type record[T any] interface {
	*T
	BaseFields() *domain.Base
}

// ops binds the service calls for one entity type.
type ops[T any] struct {
	get    func(ctx context.Context, id string) (T, error)
	create func(ctx context.Context, v T) (T, domain.Result, error)
	update func(ctx context.Context, id, expectedChangeCode string, mutator func(*T) error) (T, domain.Result, error)
	delete func(ctx context.Context, id string) (domain.Result, error)
}

// busObj holds the record state shared by every business object.
type busObj[T any, P record[T]] struct {
	svc       *core.Service
	ops       ops[T]
	rec       T
	persisted bool
	result    domain.Result
}

func (b *busObj[T, P]) base() *domain.Base { return P(&b.rec).BaseFields() }

// ID returns the record identifier, empty until saved.
func (b *busObj[T, P]) ID() string { return b.base().ID }

// LastChangeCode returns the optimistic concurrency token of the loaded record.
func (b *busObj[T, P]) LastChangeCode() string { return b.base().LastChangeCode }

// IsNew reports whether the object has not been persisted yet.
func (b *busObj[T, P]) IsNew() bool { return !b.persisted }

// Record returns a copy of the wrapped record.
func (b *busObj[T, P]) Record() T { return b.rec }

// LastResult returns the rule result of the most recent Save or Delete;
// non-blocking violations are reported here.
func (b *busObj[T, P]) LastResult() domain.Result { return b.result }

// Service returns the service the object persists through.
func (b *busObj[T, P]) Service() *core.Service { return b.svc }

// LoadFromID replaces the object state with the stored record.
func (b *busObj[T, P]) LoadFromID(ctx context.Context, id string) error {
	v, err := b.ops.get(ctx, id)
	if err != nil {
		return err
	}
	b.rec = v
	b.persisted = true
	return nil
}

// Refresh reloads the persisted record, discarding unsaved changes.
func (b *busObj[T, P]) Refresh(ctx context.Context) error {
	if !b.persisted {
		return ErrNotLoaded
	}
	return b.LoadFromID(ctx, b.ID())
}

// Save creates the record when new and updates it otherwise. Updates carry
// the change code seen at load time, so a concurrent modification surfaces as
// domain.ErrStaleRecord.
func (b *busObj[T, P]) Save(ctx context.Context) error {
	if !b.persisted {
		v, res, err := b.ops.create(ctx, b.rec)
		b.result = res
		if err != nil {
			return err
		}
		b.rec = v
		b.persisted = true
		return nil
	}
	desired := b.rec
	v, res, err := b.ops.update(ctx, b.ID(), b.LastChangeCode(), func(current *T) error {
		stamps := *P(current).BaseFields()
		*current = desired
		*P(current).BaseFields() = stamps
		return nil
	})
	b.result = res
	if err != nil {
		return err
	}
	b.rec = v
	return nil
}

// Delete removes the persisted record. The object becomes new again and can
// be saved as a fresh record.
func (b *busObj[T, P]) Delete(ctx context.Context) error {
	if !b.persisted {
		return ErrNotLoaded
	}
	res, err := b.ops.delete(ctx, b.ID())
	b.result = res
	if err != nil {
		return err
	}
	*b.base() = domain.Base{}
	b.persisted = false
	return nil
}

func (b *busObj[T, P]) wrap(svc *core.Service, o ops[T], v T, persisted bool) {
	b.svc = svc
	b.ops = o
	b.rec = v
	b.persisted = persisted
}

// wrapAll converts loaded records into business objects.
func wrapAll[T any, B any](items []T, err error, wrap func(T) B) ([]B, error) {
	if err != nil {
		return nil, err
	}
	out := make([]B, 0, len(items))
	for _, item := range items {
		out = append(out, wrap(item))
	}
	return out, nil
}
