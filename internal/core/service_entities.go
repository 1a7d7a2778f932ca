package core

import "context"

// CreatePac persists a new pac.
func (s *Service) CreatePac(ctx context.Context, v Pac) (Pac, Result, error) {
	return mutate(ctx, s, "create_pac", func(tx Transaction) (Pac, error) { return tx.CreatePac(v) })
}

// UpdatePac mutates a pac. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdatePac(ctx context.Context, id, expectedChangeCode string, mutator func(*Pac) error) (Pac, Result, error) {
	return mutate(ctx, s, "update_pac", func(tx Transaction) (Pac, error) {
		return tx.UpdatePac(id, expectedChangeCode, mutator)
	})
}

// DeletePac removes a pac.
func (s *Service) DeletePac(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_pac", id, Transaction.DeletePac)
}

// GetPac returns a pac by ID or domain.ErrNotFound.
func (s *Service) GetPac(ctx context.Context, id string) (Pac, error) {
	return get(ctx, s, EntityPac, id, TransactionView.FindPac)
}

// ListPacs returns every pac.
func (s *Service) ListPacs(ctx context.Context) ([]Pac, error) {
	return list(ctx, s, TransactionView.ListPacs, nil)
}

// CreateTac persists a new tac.
func (s *Service) CreateTac(ctx context.Context, v Tac) (Tac, Result, error) {
	return mutate(ctx, s, "create_tac", func(tx Transaction) (Tac, error) { return tx.CreateTac(v) })
}

// UpdateTac mutates a tac. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateTac(ctx context.Context, id, expectedChangeCode string, mutator func(*Tac) error) (Tac, Result, error) {
	return mutate(ctx, s, "update_tac", func(tx Transaction) (Tac, error) {
		return tx.UpdateTac(id, expectedChangeCode, mutator)
	})
}

// DeleteTac removes a tac.
func (s *Service) DeleteTac(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_tac", id, Transaction.DeleteTac)
}

// GetTac returns a tac by ID or domain.ErrNotFound.
func (s *Service) GetTac(ctx context.Context, id string) (Tac, error) {
	return get(ctx, s, EntityTac, id, TransactionView.FindTac)
}

// ListTacs returns every tac.
func (s *Service) ListTacs(ctx context.Context) ([]Tac, error) {
	return list(ctx, s, TransactionView.ListTacs, nil)
}

// CreateFlavor persists a new flavor.
func (s *Service) CreateFlavor(ctx context.Context, v Flavor) (Flavor, Result, error) {
	return mutate(ctx, s, "create_flavor", func(tx Transaction) (Flavor, error) { return tx.CreateFlavor(v) })
}

// UpdateFlavor mutates a flavor. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateFlavor(ctx context.Context, id, expectedChangeCode string, mutator func(*Flavor) error) (Flavor, Result, error) {
	return mutate(ctx, s, "update_flavor", func(tx Transaction) (Flavor, error) {
		return tx.UpdateFlavor(id, expectedChangeCode, mutator)
	})
}

// DeleteFlavor removes a flavor.
func (s *Service) DeleteFlavor(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_flavor", id, Transaction.DeleteFlavor)
}

// GetFlavor returns a flavor by ID or domain.ErrNotFound.
func (s *Service) GetFlavor(ctx context.Context, id string) (Flavor, error) {
	return get(ctx, s, EntityFlavor, id, TransactionView.FindFlavor)
}

// ListFlavors returns every flavor.
func (s *Service) ListFlavors(ctx context.Context) ([]Flavor, error) {
	return list(ctx, s, TransactionView.ListFlavors, nil)
}

// CreateLand persists a new land.
func (s *Service) CreateLand(ctx context.Context, v Land) (Land, Result, error) {
	return mutate(ctx, s, "create_land", func(tx Transaction) (Land, error) { return tx.CreateLand(v) })
}

// UpdateLand mutates a land. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateLand(ctx context.Context, id, expectedChangeCode string, mutator func(*Land) error) (Land, Result, error) {
	return mutate(ctx, s, "update_land", func(tx Transaction) (Land, error) {
		return tx.UpdateLand(id, expectedChangeCode, mutator)
	})
}

// DeleteLand removes a land.
func (s *Service) DeleteLand(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_land", id, Transaction.DeleteLand)
}

// GetLand returns a land by ID or domain.ErrNotFound.
func (s *Service) GetLand(ctx context.Context, id string) (Land, error) {
	return get(ctx, s, EntityLand, id, TransactionView.FindLand)
}

// ListLands returns every land.
func (s *Service) ListLands(ctx context.Context) ([]Land, error) {
	return list(ctx, s, TransactionView.ListLands, nil)
}

// CreatePlant persists a new plant.
func (s *Service) CreatePlant(ctx context.Context, v Plant) (Plant, Result, error) {
	return mutate(ctx, s, "create_plant", func(tx Transaction) (Plant, error) { return tx.CreatePlant(v) })
}

// UpdatePlant mutates a plant. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdatePlant(ctx context.Context, id, expectedChangeCode string, mutator func(*Plant) error) (Plant, Result, error) {
	return mutate(ctx, s, "update_plant", func(tx Transaction) (Plant, error) {
		return tx.UpdatePlant(id, expectedChangeCode, mutator)
	})
}

// DeletePlant removes a plant.
func (s *Service) DeletePlant(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_plant", id, Transaction.DeletePlant)
}

// GetPlant returns a plant by ID or domain.ErrNotFound.
func (s *Service) GetPlant(ctx context.Context, id string) (Plant, error) {
	return get(ctx, s, EntityPlant, id, TransactionView.FindPlant)
}

// ListPlants returns every plant.
func (s *Service) ListPlants(ctx context.Context) ([]Plant, error) {
	return list(ctx, s, TransactionView.ListPlants, nil)
}

// CreateOrgAPIKey persists a new API key.
func (s *Service) CreateOrgAPIKey(ctx context.Context, v OrgAPIKey) (OrgAPIKey, Result, error) {
	return mutate(ctx, s, "create_org_api_key", func(tx Transaction) (OrgAPIKey, error) { return tx.CreateOrgAPIKey(v) })
}

// UpdateOrgAPIKey mutates an API key. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateOrgAPIKey(ctx context.Context, id, expectedChangeCode string, mutator func(*OrgAPIKey) error) (OrgAPIKey, Result, error) {
	return mutate(ctx, s, "update_org_api_key", func(tx Transaction) (OrgAPIKey, error) {
		return tx.UpdateOrgAPIKey(id, expectedChangeCode, mutator)
	})
}

// DeleteOrgAPIKey removes an API key.
func (s *Service) DeleteOrgAPIKey(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_org_api_key", id, Transaction.DeleteOrgAPIKey)
}

// GetOrgAPIKey returns an API key by ID or domain.ErrNotFound.
func (s *Service) GetOrgAPIKey(ctx context.Context, id string) (OrgAPIKey, error) {
	return get(ctx, s, EntityOrgAPIKey, id, TransactionView.FindOrgAPIKey)
}

// ListOrgAPIKeys returns every API key.
func (s *Service) ListOrgAPIKeys(ctx context.Context) ([]OrgAPIKey, error) {
	return list(ctx, s, TransactionView.ListOrgAPIKeys, nil)
}

// CreateDynaFlow persists a new dyna flow.
func (s *Service) CreateDynaFlow(ctx context.Context, v DynaFlow) (DynaFlow, Result, error) {
	return mutate(ctx, s, "create_dyna_flow", func(tx Transaction) (DynaFlow, error) { return tx.CreateDynaFlow(v) })
}

// UpdateDynaFlow mutates a dyna flow. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateDynaFlow(ctx context.Context, id, expectedChangeCode string, mutator func(*DynaFlow) error) (DynaFlow, Result, error) {
	return mutate(ctx, s, "update_dyna_flow", func(tx Transaction) (DynaFlow, error) {
		return tx.UpdateDynaFlow(id, expectedChangeCode, mutator)
	})
}

// DeleteDynaFlow removes a dyna flow.
func (s *Service) DeleteDynaFlow(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_dyna_flow", id, Transaction.DeleteDynaFlow)
}

// GetDynaFlow returns a dyna flow by ID or domain.ErrNotFound.
func (s *Service) GetDynaFlow(ctx context.Context, id string) (DynaFlow, error) {
	return get(ctx, s, EntityDynaFlow, id, TransactionView.FindDynaFlow)
}

// ListDynaFlows returns every dyna flow.
func (s *Service) ListDynaFlows(ctx context.Context) ([]DynaFlow, error) {
	return list(ctx, s, TransactionView.ListDynaFlows, nil)
}

// CreateDynaFlowTask persists a new dyna flow task.
func (s *Service) CreateDynaFlowTask(ctx context.Context, v DynaFlowTask) (DynaFlowTask, Result, error) {
	return mutate(ctx, s, "create_dyna_flow_task", func(tx Transaction) (DynaFlowTask, error) { return tx.CreateDynaFlowTask(v) })
}

// UpdateDynaFlowTask mutates a dyna flow task. A non-empty expectedChangeCode must match the stored record.
func (s *Service) UpdateDynaFlowTask(ctx context.Context, id, expectedChangeCode string, mutator func(*DynaFlowTask) error) (DynaFlowTask, Result, error) {
	return mutate(ctx, s, "update_dyna_flow_task", func(tx Transaction) (DynaFlowTask, error) {
		return tx.UpdateDynaFlowTask(id, expectedChangeCode, mutator)
	})
}

// DeleteDynaFlowTask removes a dyna flow task.
func (s *Service) DeleteDynaFlowTask(ctx context.Context, id string) (Result, error) {
	return remove(ctx, s, "delete_dyna_flow_task", id, Transaction.DeleteDynaFlowTask)
}

// GetDynaFlowTask returns a dyna flow task by ID or domain.ErrNotFound.
func (s *Service) GetDynaFlowTask(ctx context.Context, id string) (DynaFlowTask, error) {
	return get(ctx, s, EntityDynaFlowTask, id, TransactionView.FindDynaFlowTask)
}

// ListDynaFlowTasks returns every dyna flow task.
func (s *Service) ListDynaFlowTasks(ctx context.Context) ([]DynaFlowTask, error) {
	return list(ctx, s, TransactionView.ListDynaFlowTasks, nil)
}
