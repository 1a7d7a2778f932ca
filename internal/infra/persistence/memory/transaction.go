package memory

import (
	"fmt"
	"time"

	"farmcore/pkg/domain"
)

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
	userID  string
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() domain.TransactionView {
	return transactionView{state: &tx.state}
}

// UserID returns the acting user recorded on the transaction context.
func (tx *transaction) UserID() string { return tx.userID }

func create[T any, P record[T]](tx *transaction, entity domain.EntityType, bucket map[string]T, rec T, clone func(T) T) (T, error) {
	var zero T
	base := P(&rec).BaseFields()
	if base.ID == "" {
		base.ID = tx.store.newID()
	}
	if _, exists := bucket[base.ID]; exists {
		return zero, fmt.Errorf("%s %q already exists", entity, base.ID)
	}
	base.CreatedAt = tx.now
	base.UpdatedAt = tx.now
	base.LastChangeCode = tx.store.newID()
	base.InsertUserID = tx.userID
	base.LastUpdateUserID = tx.userID
	bucket[base.ID] = clone(rec)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionCreate, After: clone(rec)})
	return clone(rec), nil
}

func update[T any, P record[T]](tx *transaction, entity domain.EntityType, bucket map[string]T, id, expected string, mutator func(*T) error, clone func(T) T) (T, error) {
	var zero T
	current, ok := bucket[id]
	if !ok {
		return zero, domain.ErrNotFound{Entity: entity, ID: id}
	}
	prev := *P(&current).BaseFields()
	if expected != "" && expected != prev.LastChangeCode {
		return zero, domain.ErrStaleRecord{Entity: entity, ID: id, Expected: expected, Actual: prev.LastChangeCode}
	}
	before := clone(current)
	if err := mutator(&current); err != nil {
		return zero, err
	}
	base := P(&current).BaseFields()
	base.ID = id
	base.CreatedAt = prev.CreatedAt
	base.InsertUserID = prev.InsertUserID
	base.UpdatedAt = tx.now
	base.LastChangeCode = tx.store.newID()
	base.LastUpdateUserID = tx.userID
	bucket[id] = clone(current)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionUpdate, Before: before, After: clone(current)})
	return clone(current), nil
}

func remove[T any](tx *transaction, entity domain.EntityType, bucket map[string]T, id string) error {
	current, ok := bucket[id]
	if !ok {
		return domain.ErrNotFound{Entity: entity, ID: id}
	}
	delete(bucket, id)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionDelete, Before: current})
	return nil
}

// firstReference returns the ID of the first record in bucket matching ref.
func firstReference[T any, P record[T]](bucket map[string]T, ref func(T) bool) (string, bool) {
	for _, v := range sortedValues[T, P](bucket, identity[T]) {
		if ref(v) {
			return P(&v).BaseFields().ID, true
		}
	}
	return "", false
}

// CreatePac stores a new pac.
func (tx *transaction) CreatePac(p Pac) (Pac, error) {
	return create(tx, domain.EntityPac, tx.state.pacs, p, identity[Pac])
}

// UpdatePac mutates an existing pac.
func (tx *transaction) UpdatePac(id, expected string, mutator func(*Pac) error) (Pac, error) {
	return update(tx, domain.EntityPac, tx.state.pacs, id, expected, mutator, identity[Pac])
}

// DeletePac removes a pac that no longer owns tacs, flavors or lands.
func (tx *transaction) DeletePac(id string) error {
	if dep, ok := firstReference(tx.state.tacs, func(t Tac) bool { return t.PacID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityPac, ID: id, Dependent: domain.EntityTac, DependentID: dep}
	}
	if dep, ok := firstReference(tx.state.flavors, func(f Flavor) bool { return f.PacID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityPac, ID: id, Dependent: domain.EntityFlavor, DependentID: dep}
	}
	if dep, ok := firstReference(tx.state.lands, func(l Land) bool { return l.PacID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityPac, ID: id, Dependent: domain.EntityLand, DependentID: dep}
	}
	return remove(tx, domain.EntityPac, tx.state.pacs, id)
}

// CreateTac stores a new tac.
func (tx *transaction) CreateTac(t Tac) (Tac, error) {
	return create(tx, domain.EntityTac, tx.state.tacs, t, identity[Tac])
}

// UpdateTac mutates an existing tac.
func (tx *transaction) UpdateTac(id, expected string, mutator func(*Tac) error) (Tac, error) {
	return update(tx, domain.EntityTac, tx.state.tacs, id, expected, mutator, identity[Tac])
}

// DeleteTac removes a tac without API keys or dyna flows.
func (tx *transaction) DeleteTac(id string) error {
	if dep, ok := firstReference(tx.state.apiKeys, func(k OrgAPIKey) bool { return k.TacID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityTac, ID: id, Dependent: domain.EntityOrgAPIKey, DependentID: dep}
	}
	if dep, ok := firstReference(tx.state.flows, func(f DynaFlow) bool { return f.TacID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityTac, ID: id, Dependent: domain.EntityDynaFlow, DependentID: dep}
	}
	return remove(tx, domain.EntityTac, tx.state.tacs, id)
}

// CreateFlavor stores a new flavor.
func (tx *transaction) CreateFlavor(f Flavor) (Flavor, error) {
	return create(tx, domain.EntityFlavor, tx.state.flavors, f, identity[Flavor])
}

// UpdateFlavor mutates an existing flavor.
func (tx *transaction) UpdateFlavor(id, expected string, mutator func(*Flavor) error) (Flavor, error) {
	return update(tx, domain.EntityFlavor, tx.state.flavors, id, expected, mutator, identity[Flavor])
}

// DeleteFlavor removes a flavor no plant references.
func (tx *transaction) DeleteFlavor(id string) error {
	if dep, ok := firstReference(tx.state.plants, func(p Plant) bool { return p.FlavorID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityFlavor, ID: id, Dependent: domain.EntityPlant, DependentID: dep}
	}
	return remove(tx, domain.EntityFlavor, tx.state.flavors, id)
}

// CreateLand stores a new land.
func (tx *transaction) CreateLand(l Land) (Land, error) {
	return create(tx, domain.EntityLand, tx.state.lands, l, identity[Land])
}

// UpdateLand mutates an existing land.
func (tx *transaction) UpdateLand(id, expected string, mutator func(*Land) error) (Land, error) {
	return update(tx, domain.EntityLand, tx.state.lands, id, expected, mutator, identity[Land])
}

// DeleteLand removes a land without plants.
func (tx *transaction) DeleteLand(id string) error {
	if dep, ok := firstReference(tx.state.plants, func(p Plant) bool { return p.LandID == id }); ok {
		return domain.ErrInUse{Entity: domain.EntityLand, ID: id, Dependent: domain.EntityPlant, DependentID: dep}
	}
	return remove(tx, domain.EntityLand, tx.state.lands, id)
}

// CreatePlant stores a new plant.
func (tx *transaction) CreatePlant(p Plant) (Plant, error) {
	return create(tx, domain.EntityPlant, tx.state.plants, p, identity[Plant])
}

// UpdatePlant mutates an existing plant.
func (tx *transaction) UpdatePlant(id, expected string, mutator func(*Plant) error) (Plant, error) {
	return update(tx, domain.EntityPlant, tx.state.plants, id, expected, mutator, identity[Plant])
}

// DeletePlant removes a plant.
func (tx *transaction) DeletePlant(id string) error {
	return remove(tx, domain.EntityPlant, tx.state.plants, id)
}

// CreateOrgAPIKey stores a new API key.
func (tx *transaction) CreateOrgAPIKey(k OrgAPIKey) (OrgAPIKey, error) {
	return create(tx, domain.EntityOrgAPIKey, tx.state.apiKeys, k, cloneAPIKey)
}

// UpdateOrgAPIKey mutates an existing API key.
func (tx *transaction) UpdateOrgAPIKey(id, expected string, mutator func(*OrgAPIKey) error) (OrgAPIKey, error) {
	return update(tx, domain.EntityOrgAPIKey, tx.state.apiKeys, id, expected, mutator, cloneAPIKey)
}

// DeleteOrgAPIKey removes an API key.
func (tx *transaction) DeleteOrgAPIKey(id string) error {
	return remove(tx, domain.EntityOrgAPIKey, tx.state.apiKeys, id)
}

// CreateDynaFlow stores a new dyna flow request.
func (tx *transaction) CreateDynaFlow(f DynaFlow) (DynaFlow, error) {
	return create(tx, domain.EntityDynaFlow, tx.state.flows, f, cloneDynaFlow)
}

// UpdateDynaFlow mutates an existing dyna flow.
func (tx *transaction) UpdateDynaFlow(id, expected string, mutator func(*DynaFlow) error) (DynaFlow, error) {
	return update(tx, domain.EntityDynaFlow, tx.state.flows, id, expected, mutator, cloneDynaFlow)
}

// DeleteDynaFlow removes a dyna flow together with its task records.
func (tx *transaction) DeleteDynaFlow(id string) error {
	if _, ok := tx.state.flows[id]; !ok {
		return domain.ErrNotFound{Entity: domain.EntityDynaFlow, ID: id}
	}
	for _, task := range sortedValues(tx.state.flowTasks, cloneDynaFlowTask) {
		if task.DynaFlowID != id {
			continue
		}
		if err := remove(tx, domain.EntityDynaFlowTask, tx.state.flowTasks, task.ID); err != nil {
			return err
		}
	}
	return remove(tx, domain.EntityDynaFlow, tx.state.flows, id)
}

// CreateDynaFlowTask stores a new dyna flow task record.
func (tx *transaction) CreateDynaFlowTask(t DynaFlowTask) (DynaFlowTask, error) {
	return create(tx, domain.EntityDynaFlowTask, tx.state.flowTasks, t, cloneDynaFlowTask)
}

// UpdateDynaFlowTask mutates an existing dyna flow task.
func (tx *transaction) UpdateDynaFlowTask(id, expected string, mutator func(*DynaFlowTask) error) (DynaFlowTask, error) {
	return update(tx, domain.EntityDynaFlowTask, tx.state.flowTasks, id, expected, mutator, cloneDynaFlowTask)
}

// DeleteDynaFlowTask removes a dyna flow task record.
func (tx *transaction) DeleteDynaFlowTask(id string) error {
	return remove(tx, domain.EntityDynaFlowTask, tx.state.flowTasks, id)
}
