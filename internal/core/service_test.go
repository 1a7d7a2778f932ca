package core

import (
	"context"
	"errors"
	"testing"

	"farmcore/pkg/domain"
)

func TestServiceCRUDLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	f := seedFixture(t, svc)

	got, err := svc.GetPlant(ctx, f.plant.ID)
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if got.SomeTextVal != "seed" {
		t.Fatalf("unexpected plant: %+v", got)
	}

	updated, _, err := svc.UpdatePlant(ctx, f.plant.ID, f.plant.LastChangeCode, func(p *Plant) error {
		p.SomeTextVal = "grown"
		return nil
	})
	if err != nil {
		t.Fatalf("update plant: %v", err)
	}
	if updated.LastChangeCode == f.plant.LastChangeCode {
		t.Fatalf("expected new change code")
	}

	_, _, err = svc.UpdatePlant(ctx, f.plant.ID, f.plant.LastChangeCode, func(*Plant) error { return nil })
	var stale domain.ErrStaleRecord
	if !errors.As(err, &stale) {
		t.Fatalf("expected stale record error, got %v", err)
	}

	plants, err := svc.ListPlantsByLand(ctx, f.land.ID)
	if err != nil || len(plants) != 1 {
		t.Fatalf("expected one plant on land, got %d (%v)", len(plants), err)
	}
	if byFlavor, _ := svc.ListPlantsByFlavor(ctx, f.flavor.ID); len(byFlavor) != 1 {
		t.Fatalf("expected one plant for flavor")
	}

	if _, err := svc.DeleteLand(ctx, f.land.ID); err == nil {
		t.Fatalf("expected land delete to fail while plants exist")
	}
	if _, err := svc.DeletePlant(ctx, f.plant.ID); err != nil {
		t.Fatalf("delete plant: %v", err)
	}
	if _, err := svc.GetPlant(ctx, f.plant.ID); !errors.As(err, new(domain.ErrNotFound)) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := svc.DeleteLand(ctx, f.land.ID); err != nil {
		t.Fatalf("delete land: %v", err)
	}
}

func TestServiceListsByParent(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	f := seedFixture(t, svc)

	if tacs, _ := svc.ListTacsByPac(ctx, f.pac.ID); len(tacs) != 1 {
		t.Fatalf("expected one tac")
	}
	if flavors, _ := svc.ListFlavorsByPac(ctx, f.pac.ID); len(flavors) != 1 {
		t.Fatalf("expected one flavor")
	}
	if lands, _ := svc.ListLandsByPac(ctx, "other"); len(lands) != 0 {
		t.Fatalf("expected no lands for unknown pac")
	}

	key, _, err := svc.CreateOrgAPIKey(ctx, OrgAPIKey{TacID: f.tac.ID, Name: "ci", APIKeyValue: "secret", IsActive: true})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}
	found, ok, err := svc.FindOrgAPIKeyByValue(ctx, "secret")
	if err != nil || !ok || found.ID != key.ID {
		t.Fatalf("expected key lookup by value, got %+v %v %v", found, ok, err)
	}
	if _, ok, _ := svc.FindOrgAPIKeyByValue(ctx, ""); ok {
		t.Fatalf("empty value must not match")
	}

	flow, _, err := svc.CreateDynaFlow(ctx, DynaFlow{TacID: f.tac.ID, FlowType: "demo", Status: domain.DynaFlowStatusRequested})
	if err != nil {
		t.Fatalf("create flow: %v", err)
	}
	for _, seq := range []int{2, 1} {
		if _, _, err := svc.CreateDynaFlowTask(ctx, DynaFlowTask{DynaFlowID: flow.ID, Sequence: seq, TaskType: "t"}); err != nil {
			t.Fatalf("create task %d: %v", seq, err)
		}
	}
	tasks, err := svc.ListDynaFlowTasksByFlow(ctx, flow.ID)
	if err != nil || len(tasks) != 2 || tasks[0].Sequence != 1 {
		t.Fatalf("expected tasks ordered by sequence, got %+v", tasks)
	}
	requested, _ := svc.ListDynaFlowsByStatus(ctx, domain.DynaFlowStatusRequested)
	if len(requested) != 1 {
		t.Fatalf("expected one requested flow")
	}
	if byTac, _ := svc.ListDynaFlowsByTac(ctx, f.tac.ID); len(byTac) != 1 {
		t.Fatalf("expected one flow for tac")
	}
	if keys, _ := svc.ListOrgAPIKeysByTac(ctx, f.tac.ID); len(keys) != 1 {
		t.Fatalf("expected one key for tac")
	}
}

func TestServiceRunGroupsMutations(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	_, err := svc.Run(ctx, "seed_farm", func(tx Transaction) error {
		pac, err := tx.CreatePac(Pac{Lookup: Lookup{Name: "P"}})
		if err != nil {
			return err
		}
		_, err = tx.CreateLand(Land{PacID: pac.ID})
		return err
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lands, _ := svc.ListLands(ctx)
	pacs, _ := svc.ListPacs(ctx)
	if len(lands) != 1 || len(pacs) != 1 {
		t.Fatalf("expected grouped commit")
	}
}
