package memory

import (
	"context"

	"farmcore/pkg/domain"
)

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

// ListPacs returns all pacs in the snapshot.
func (v transactionView) ListPacs() []Pac { return sortedValues(v.state.pacs, identity[Pac]) }

// ListTacs returns all tacs in the snapshot.
func (v transactionView) ListTacs() []Tac { return sortedValues(v.state.tacs, identity[Tac]) }

// ListFlavors returns all flavors in the snapshot.
func (v transactionView) ListFlavors() []Flavor {
	return sortedValues(v.state.flavors, identity[Flavor])
}

// ListLands returns all lands in the snapshot.
func (v transactionView) ListLands() []Land { return sortedValues(v.state.lands, identity[Land]) }

// ListPlants returns all plants in the snapshot.
func (v transactionView) ListPlants() []Plant {
	return sortedValues(v.state.plants, identity[Plant])
}

// ListOrgAPIKeys returns all API keys in the snapshot.
func (v transactionView) ListOrgAPIKeys() []OrgAPIKey {
	return sortedValues(v.state.apiKeys, cloneAPIKey)
}

// ListDynaFlows returns all dyna flows in the snapshot.
func (v transactionView) ListDynaFlows() []DynaFlow {
	return sortedValues(v.state.flows, cloneDynaFlow)
}

// ListDynaFlowTasks returns all dyna flow tasks in the snapshot.
func (v transactionView) ListDynaFlowTasks() []DynaFlowTask {
	return sortedValues(v.state.flowTasks, cloneDynaFlowTask)
}

// FindPac retrieves a pac by ID from the snapshot.
func (v transactionView) FindPac(id string) (Pac, bool) {
	return find(v.state.pacs, id, identity[Pac])
}

// FindTac retrieves a tac by ID from the snapshot.
func (v transactionView) FindTac(id string) (Tac, bool) {
	return find(v.state.tacs, id, identity[Tac])
}

// FindFlavor retrieves a flavor by ID from the snapshot.
func (v transactionView) FindFlavor(id string) (Flavor, bool) {
	return find(v.state.flavors, id, identity[Flavor])
}

// FindLand retrieves a land by ID from the snapshot.
func (v transactionView) FindLand(id string) (Land, bool) {
	return find(v.state.lands, id, identity[Land])
}

// FindPlant retrieves a plant by ID from the snapshot.
func (v transactionView) FindPlant(id string) (Plant, bool) {
	return find(v.state.plants, id, identity[Plant])
}

// FindOrgAPIKey retrieves an API key by ID from the snapshot.
func (v transactionView) FindOrgAPIKey(id string) (OrgAPIKey, bool) {
	return find(v.state.apiKeys, id, cloneAPIKey)
}

// FindDynaFlow retrieves a dyna flow by ID from the snapshot.
func (v transactionView) FindDynaFlow(id string) (DynaFlow, bool) {
	return find(v.state.flows, id, cloneDynaFlow)
}

// FindDynaFlowTask retrieves a dyna flow task by ID from the snapshot.
func (v transactionView) FindDynaFlowTask(id string) (DynaFlowTask, bool) {
	return find(v.state.flowTasks, id, cloneDynaFlowTask)
}

// ListPacs returns all committed pacs.
func (s *Store) ListPacs() []Pac {
	var out []Pac
	_ = s.View(context.Background(), func(v domain.TransactionView) error {
		out = v.ListPacs()
		return nil
	})
	return out
}

// ListPlants returns all committed plants.
func (s *Store) ListPlants() []Plant {
	var out []Plant
	_ = s.View(context.Background(), func(v domain.TransactionView) error {
		out = v.ListPlants()
		return nil
	})
	return out
}
