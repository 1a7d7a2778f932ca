package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
//
// Update methods take an expected change code; when non-empty it must match
// the stored LastChangeCode or the update fails with ErrStaleRecord.
type Transaction interface {
	Snapshot() TransactionView
	UserID() string

	CreatePac(Pac) (Pac, error)
	UpdatePac(id, expectedChangeCode string, mutator func(*Pac) error) (Pac, error)
	DeletePac(id string) error
	CreateTac(Tac) (Tac, error)
	UpdateTac(id, expectedChangeCode string, mutator func(*Tac) error) (Tac, error)
	DeleteTac(id string) error
	CreateFlavor(Flavor) (Flavor, error)
	UpdateFlavor(id, expectedChangeCode string, mutator func(*Flavor) error) (Flavor, error)
	DeleteFlavor(id string) error
	CreateLand(Land) (Land, error)
	UpdateLand(id, expectedChangeCode string, mutator func(*Land) error) (Land, error)
	DeleteLand(id string) error
	CreatePlant(Plant) (Plant, error)
	UpdatePlant(id, expectedChangeCode string, mutator func(*Plant) error) (Plant, error)
	DeletePlant(id string) error
	CreateOrgAPIKey(OrgAPIKey) (OrgAPIKey, error)
	UpdateOrgAPIKey(id, expectedChangeCode string, mutator func(*OrgAPIKey) error) (OrgAPIKey, error)
	DeleteOrgAPIKey(id string) error
	CreateDynaFlow(DynaFlow) (DynaFlow, error)
	UpdateDynaFlow(id, expectedChangeCode string, mutator func(*DynaFlow) error) (DynaFlow, error)
	DeleteDynaFlow(id string) error
	CreateDynaFlowTask(DynaFlowTask) (DynaFlowTask, error)
	UpdateDynaFlowTask(id, expectedChangeCode string, mutator func(*DynaFlowTask) error) (DynaFlowTask, error)
	DeleteDynaFlowTask(id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// read paths.
type TransactionView interface {
	RuleView
}

// CommitHook receives the changes of a transaction before its state is
// published. Returning an error aborts the commit.
type CommitHook func(ctx context.Context, changes []Change) error

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	RulesEngine() *RulesEngine
}

// userKey carries the acting user through transaction contexts.
type userKey struct{}

// WithUserID annotates ctx with the acting user, recorded on InsertUserID and
// LastUpdateUserID by stores.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserIDFromContext returns the acting user recorded by WithUserID.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(userKey{}).(string); ok {
		return v
	}
	return ""
}
