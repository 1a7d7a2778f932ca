package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

type farm struct {
	svc    *core.Service
	pac    *PacBusObj
	tac    *TacBusObj
	flavor *FlavorBusObj
	land   *LandBusObj
}

func newFarm(t *testing.T) farm {
	t.Helper()
	ctx := context.Background()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	f := farm{svc: svc}

	f.pac = NewPac(svc).SetName("Main").SetLookupEnumName("Main").SetIsActive(true)
	if err := f.pac.Save(ctx); err != nil {
		t.Fatalf("save pac: %v", err)
	}
	f.tac = f.pac.BuildTac().SetName("Tac").SetLookupEnumName("Primary")
	if err := f.tac.Save(ctx); err != nil {
		t.Fatalf("save tac: %v", err)
	}
	f.flavor = f.pac.BuildFlavor().SetName("Sweet").SetLookupEnumName("Sweet").SetIsActive(true)
	if err := f.flavor.Save(ctx); err != nil {
		t.Fatalf("save flavor: %v", err)
	}
	f.land = f.pac.BuildLand().SetName("North").SetLookupEnumName("North").SetDisplayOrder(1)
	if err := f.land.Save(ctx); err != nil {
		t.Fatalf("save land: %v", err)
	}
	return f
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	plant := f.land.BuildPlant().
		SetFlavorID(f.flavor.ID()).
		SetSomeIntVal(7).
		SetSomeVarCharVal("row 1").
		SetSomeEmailAddress("grower@example.com").
		SetSomeUTCDateTimeVal(time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC))
	if !plant.IsNew() {
		t.Fatalf("built plant should be new")
	}
	if err := plant.Save(ctx); err != nil {
		t.Fatalf("create plant: %v", err)
	}
	if plant.IsNew() || plant.ID() == "" || plant.LastChangeCode() == "" {
		t.Fatalf("expected persisted plant, got %+v", plant.Record())
	}
	created := plant.Record().CreatedAt
	firstCode := plant.LastChangeCode()

	if err := plant.SetSomeIntVal(8).SetSomeTextVal("watered").Save(ctx); err != nil {
		t.Fatalf("update plant: %v", err)
	}
	if plant.LastChangeCode() == firstCode {
		t.Fatalf("expected change code to rotate")
	}
	if !plant.Record().CreatedAt.Equal(created) {
		t.Fatalf("created stamp changed: %v != %v", plant.Record().CreatedAt, created)
	}

	loaded, err := LoadPlant(ctx, f.svc, plant.ID())
	if err != nil {
		t.Fatalf("load plant: %v", err)
	}
	rec := loaded.Record()
	if rec.SomeIntVal != 8 || rec.SomeTextVal != "watered" || rec.SomeVarCharVal != "row 1" {
		t.Fatalf("unexpected stored plant: %+v", rec)
	}
}

func TestSaveRejectsStaleChangeCode(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	first, err := LoadLand(ctx, f.svc, f.land.ID())
	if err != nil {
		t.Fatalf("load land: %v", err)
	}
	second, err := LoadLand(ctx, f.svc, f.land.ID())
	if err != nil {
		t.Fatalf("load land: %v", err)
	}
	if err := first.SetDescription("first writer").Save(ctx); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err = second.SetDescription("second writer").Save(ctx)
	var stale domain.ErrStaleRecord
	if !errors.As(err, &stale) {
		t.Fatalf("expected stale record error, got %v", err)
	}

	if err := second.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.Record().Description != "first writer" {
		t.Fatalf("refresh did not reload: %+v", second.Record())
	}
	if err := second.SetDescription("second writer").Save(ctx); err != nil {
		t.Fatalf("save after refresh: %v", err)
	}
}

func TestDeleteResetsObject(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	if err := NewPac(f.svc).Delete(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := NewPac(f.svc).Refresh(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded on refresh, got %v", err)
	}

	plant := f.land.BuildPlant().SetFlavorID(f.flavor.ID())
	if err := plant.Save(ctx); err != nil {
		t.Fatalf("save plant: %v", err)
	}
	id := plant.ID()
	if err := plant.Delete(ctx); err != nil {
		t.Fatalf("delete plant: %v", err)
	}
	if !plant.IsNew() || plant.ID() != "" {
		t.Fatalf("expected deleted plant to be new again")
	}
	if _, err := LoadPlant(ctx, f.svc, id); !errors.As(err, new(domain.ErrNotFound)) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := f.land.Delete(ctx); err != nil {
		t.Fatalf("delete empty land: %v", err)
	}
}

func TestDeleteBlockedByChildren(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	if err := f.land.BuildPlant().SetFlavorID(f.flavor.ID()).Save(ctx); err != nil {
		t.Fatalf("save plant: %v", err)
	}
	if err := f.land.Delete(ctx); err == nil {
		t.Fatalf("expected delete to fail while plants exist")
	}
	if f.land.IsNew() {
		t.Fatalf("failed delete must keep the object persisted")
	}
}

func TestRulesSurfaceThroughSave(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	dup := f.pac.BuildLand().SetName("North again").SetLookupEnumName("north")
	err := dup.Save(ctx)
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if !dup.LastResult().HasBlocking() {
		t.Fatalf("expected blocking violation in last result")
	}
	if !dup.IsNew() {
		t.Fatalf("rejected create must stay new")
	}
}

func TestNavigation(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	for i := 0; i < 3; i++ {
		if err := f.land.BuildPlant().SetFlavorID(f.flavor.ID()).SetSomeIntVal(int32(i)).Save(ctx); err != nil {
			t.Fatalf("save plant %d: %v", i, err)
		}
	}
	plants, err := f.land.Plants(ctx)
	if err != nil || len(plants) != 3 {
		t.Fatalf("expected 3 plants on land, got %d (%v)", len(plants), err)
	}
	byFlavor, err := f.flavor.Plants(ctx)
	if err != nil || len(byFlavor) != 3 {
		t.Fatalf("expected 3 plants for flavor, got %d (%v)", len(byFlavor), err)
	}
	if plants[0].IsNew() {
		t.Fatalf("listed plants must be persisted")
	}

	land, err := plants[0].Land(ctx)
	if err != nil || land.ID() != f.land.ID() {
		t.Fatalf("plant land navigation failed: %v", err)
	}
	flavor, err := plants[0].Flavor(ctx)
	if err != nil || flavor.Record().Name != "Sweet" {
		t.Fatalf("plant flavor navigation failed: %v", err)
	}
	pac, err := land.Pac(ctx)
	if err != nil || pac.ID() != f.pac.ID() {
		t.Fatalf("land pac navigation failed: %v", err)
	}

	tacs, err := f.pac.Tacs(ctx)
	if err != nil || len(tacs) != 1 {
		t.Fatalf("expected one tac, got %d (%v)", len(tacs), err)
	}
	lands, _ := f.pac.Lands(ctx)
	flavors, _ := f.pac.Flavors(ctx)
	if len(lands) != 1 || len(flavors) != 1 {
		t.Fatalf("expected one land and one flavor, got %d/%d", len(lands), len(flavors))
	}
}

func TestTacChildren(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	roles := []string{"admin"}
	key := f.tac.BuildOrgAPIKey().
		SetName("ci").
		SetAPIKeyValue("secret-value").
		SetCustomerCode("cust-1").
		SetRoleNames(roles).
		SetIsActive(true)
	roles[0] = "mutated"
	if err := key.Save(ctx); err != nil {
		t.Fatalf("save key: %v", err)
	}
	if got := key.Record().RoleNames; len(got) != 1 || got[0] != "admin" {
		t.Fatalf("role names not copied: %v", got)
	}

	flow := f.tac.BuildDynaFlow().
		SetFlowType("plant_sample_workflow").
		SetStatus(domain.DynaFlowStatusRequested).
		SetRequestedAt(time.Now().UTC())
	if err := flow.Save(ctx); err != nil {
		t.Fatalf("save flow: %v", err)
	}
	task := flow.BuildDynaFlowTask().SetTaskType("plant_sample_task_1").SetSequence(1).SetStatus(domain.DynaFlowStatusStarted)
	if err := task.Save(ctx); err != nil {
		t.Fatalf("save task: %v", err)
	}
	started := time.Now().UTC()
	task.SetStartedAt(&started)
	started = started.Add(time.Hour)
	if got := task.Record().StartedAt; got == nil || got.Equal(started) {
		t.Fatalf("StartedAt must be copied, got %v", got)
	}
	if task.SetCompletedAt(nil).Record().CompletedAt != nil {
		t.Fatalf("expected nil CompletedAt")
	}

	keys, err := f.tac.OrgAPIKeys(ctx)
	if err != nil || len(keys) != 1 {
		t.Fatalf("expected one key, got %d (%v)", len(keys), err)
	}
	flows, err := f.tac.DynaFlows(ctx)
	if err != nil || len(flows) != 1 {
		t.Fatalf("expected one flow, got %d (%v)", len(flows), err)
	}
	tasks, err := flows[0].DynaFlowTasks(ctx)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("expected one task, got %d (%v)", len(tasks), err)
	}
	parent, err := tasks[0].DynaFlow(ctx)
	if err != nil || parent.ID() != flow.ID() {
		t.Fatalf("task flow navigation failed: %v", err)
	}
	owner, err := keys[0].Tac(ctx)
	if err != nil || owner.ID() != f.tac.ID() {
		t.Fatalf("key tac navigation failed: %v", err)
	}
	all, err := ListPacs(ctx, f.svc)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one pac, got %d (%v)", len(all), err)
	}
}
