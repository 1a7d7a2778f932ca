package core

import (
	"context"
	"sort"
)

// ListTacsByPac returns the tacs owned by a pac.
func (s *Service) ListTacsByPac(ctx context.Context, pacID string) ([]Tac, error) {
	return list(ctx, s, TransactionView.ListTacs, func(t Tac) bool { return t.PacID == pacID })
}

// ListFlavorsByPac returns the flavors owned by a pac.
func (s *Service) ListFlavorsByPac(ctx context.Context, pacID string) ([]Flavor, error) {
	return list(ctx, s, TransactionView.ListFlavors, func(f Flavor) bool { return f.PacID == pacID })
}

// ListLandsByPac returns the lands owned by a pac.
func (s *Service) ListLandsByPac(ctx context.Context, pacID string) ([]Land, error) {
	return list(ctx, s, TransactionView.ListLands, func(l Land) bool { return l.PacID == pacID })
}

// ListPlantsByLand returns the plants growing on a land.
func (s *Service) ListPlantsByLand(ctx context.Context, landID string) ([]Plant, error) {
	return list(ctx, s, TransactionView.ListPlants, func(p Plant) bool { return p.LandID == landID })
}

// ListPlantsByFlavor returns the plants referencing a flavor.
func (s *Service) ListPlantsByFlavor(ctx context.Context, flavorID string) ([]Plant, error) {
	return list(ctx, s, TransactionView.ListPlants, func(p Plant) bool { return p.FlavorID == flavorID })
}

// ListOrgAPIKeysByTac returns the API keys issued by a tac.
func (s *Service) ListOrgAPIKeysByTac(ctx context.Context, tacID string) ([]OrgAPIKey, error) {
	return list(ctx, s, TransactionView.ListOrgAPIKeys, func(k OrgAPIKey) bool { return k.TacID == tacID })
}

// ListDynaFlowsByTac returns the dyna flows requested within a tac.
func (s *Service) ListDynaFlowsByTac(ctx context.Context, tacID string) ([]DynaFlow, error) {
	return list(ctx, s, TransactionView.ListDynaFlows, func(f DynaFlow) bool { return f.TacID == tacID })
}

// ListDynaFlowsByStatus returns the dyna flows currently in status.
func (s *Service) ListDynaFlowsByStatus(ctx context.Context, status DynaFlowStatus) ([]DynaFlow, error) {
	return list(ctx, s, TransactionView.ListDynaFlows, func(f DynaFlow) bool { return f.Status == status })
}

// ListDynaFlowTasksByFlow returns a flow's tasks ordered by sequence.
func (s *Service) ListDynaFlowTasksByFlow(ctx context.Context, flowID string) ([]DynaFlowTask, error) {
	tasks, err := list(ctx, s, TransactionView.ListDynaFlowTasks, func(t DynaFlowTask) bool { return t.DynaFlowID == flowID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Sequence < tasks[j].Sequence })
	return tasks, nil
}

// FindOrgAPIKeyByValue looks up an API key by its secret value.
func (s *Service) FindOrgAPIKeyByValue(ctx context.Context, value string) (OrgAPIKey, bool, error) {
	if value == "" {
		return OrgAPIKey{}, false, nil
	}
	keys, err := list(ctx, s, TransactionView.ListOrgAPIKeys, func(k OrgAPIKey) bool { return k.APIKeyValue == value })
	if err != nil || len(keys) == 0 {
		return OrgAPIKey{}, false, err
	}
	return keys[0], true, nil
}
