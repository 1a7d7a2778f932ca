package reports

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"farmcore/pkg/domain"
)

func TestLandPlantListPaging(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()

	page, err := p.Run(ctx, LandPlantList, map[string]any{"land_id": f.north.ID}, PageRequest{
		PageNumber:        3,
		ItemCountPerPage:  5,
		OrderByColumnName: "some_int_val",
		OrderByDescending: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if page.TotalCount != 12 || page.PageCount != 3 || page.PageNumber != 3 || page.ItemCountPerPage != 5 {
		t.Fatalf("unexpected paging %+v", page)
	}
	if diff := cmp.Diff([]any{int64(2), int64(1)}, column(page.Items, "some_int_val")); diff != "" {
		t.Fatalf("some_int_val mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{true, false}, column(page.Items, "is_edit_allowed")); diff != "" {
		t.Fatalf("is_edit_allowed mismatch (-want +got):\n%s", diff)
	}
	if page.Items[0]["flavor_name"] != "Sweet" || page.Items[0]["land_name"] != "North" {
		t.Fatalf("expected joined names, got %+v", page.Items[0])
	}
	if page.HasNext() {
		t.Fatalf("last page must not have next")
	}

	first, err := p.Run(ctx, LandPlantList, map[string]any{"land_id": f.north.ID}, PageRequest{})
	if err != nil {
		t.Fatalf("default page: %v", err)
	}
	if len(first.Items) != DefaultItemCountPerPage || first.PageCount != 2 || first.Columns[0] != "plant_id" {
		t.Fatalf("unexpected default page: %d items, %d pages, columns %v", len(first.Items), first.PageCount, first.Columns)
	}

	empty, err := p.Run(ctx, LandPlantList, map[string]any{"land_id": f.south.ID}, PageRequest{})
	if err != nil {
		t.Fatalf("empty land: %v", err)
	}
	if empty.TotalCount != 0 || empty.PageCount != 0 || len(empty.Items) != 0 {
		t.Fatalf("expected empty page, got %+v", empty)
	}
}

func TestLookupListsFilterByActive(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()

	all, err := p.Run(ctx, PacUserLandList, map[string]any{"pac_id": f.pac.ID}, PageRequest{})
	if err != nil {
		t.Fatalf("lands: %v", err)
	}
	if diff := cmp.Diff([]any{"North", "South"}, column(all.Items, "name")); diff != "" {
		t.Fatalf("lands mismatch (-want +got):\n%s", diff)
	}
	active, err := p.Run(ctx, PacUserLandList, map[string]any{"pac_id": f.pac.ID, "is_active": "true"}, PageRequest{})
	if err != nil {
		t.Fatalf("active lands: %v", err)
	}
	if diff := cmp.Diff([]any{"North"}, column(active.Items, "name")); diff != "" {
		t.Fatalf("active lands mismatch (-want +got):\n%s", diff)
	}
	if active.Items[0]["is_active"] != true {
		t.Fatalf("expected bool is_active, got %T", active.Items[0]["is_active"])
	}

	tacs, err := p.Run(ctx, PacUserTacList, map[string]any{"pac_id": f.pac.ID}, PageRequest{})
	if err != nil || tacs.TotalCount != 1 || tacs.Items[0]["tac_id"] != f.tac.ID {
		t.Fatalf("unexpected tacs %+v err=%v", tacs, err)
	}
	flavors, err := p.Run(ctx, PacUserFlavorList, map[string]any{"pac_id": f.pac.ID}, PageRequest{OrderByColumnName: "name"})
	if err != nil || flavors.TotalCount != 1 || flavors.Items[0]["lookup_enum_name"] != "Sweet" {
		t.Fatalf("unexpected flavors %+v err=%v", flavors, err)
	}
}

func TestTacFarmDashboardAndPlantDetails(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()

	dash, err := p.Run(ctx, TacFarmDashboard, map[string]any{"tac_id": f.tac.ID}, PageRequest{OrderByColumnName: "land_name"})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	got := make([]map[string]any, len(dash.Items))
	for i, item := range dash.Items {
		got[i] = map[string]any{"land_name": item["land_name"], "plant_count": item["plant_count"]}
	}
	want := []map[string]any{
		{"land_name": "North", "plant_count": int64(12)},
		{"land_name": "South", "plant_count": int64(0)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dashboard mismatch (-want +got):\n%s", diff)
	}
	if dash.Items[0]["total_money_val"] != 18.0 {
		t.Fatalf("expected money total 18, got %v", dash.Items[0]["total_money_val"])
	}

	plant := f.plants[3]
	details, err := p.Run(ctx, PlantUserDetails, map[string]any{"plant_id": plant.ID}, PageRequest{})
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.TotalCount != 1 {
		t.Fatalf("expected one plant, got %d", details.TotalCount)
	}
	row := details.Items[0]
	if row["land_name"] != "North" || row["flavor_enum"] != "Sweet" || row["pac_id"] != f.pac.ID {
		t.Fatalf("unexpected details %+v", row)
	}
	if row["last_change_code"] != plant.LastChangeCode || row["is_edit_allowed"] != true {
		t.Fatalf("unexpected plant columns %+v", row)
	}
	if row["some_utc_date_time_val"] != "2024-03-01T11:30:00.000000000Z" {
		t.Fatalf("unexpected timestamp encoding %v", row["some_utc_date_time_val"])
	}
}

func TestTacListsHideSecretsAndCountTasks(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()

	if _, _, err := f.svc.CreateOrgAPIKey(ctx, domain.OrgAPIKey{
		TacID:        f.tac.ID,
		Name:         "integration",
		APIKeyValue:  "secret-value",
		CustomerCode: "ACME",
		RoleNames:    []string{"Admin"},
		IsActive:     true,
	}); err != nil {
		t.Fatalf("key: %v", err)
	}
	keys, err := p.Run(ctx, TacOrgAPIKeyList, map[string]any{"tac_id": f.tac.ID, "customer_code": "ACME"}, PageRequest{})
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if keys.TotalCount != 1 || keys.Items[0]["role_names"] != `["Admin"]` {
		t.Fatalf("unexpected keys %+v", keys.Items)
	}
	for _, col := range keys.Columns {
		if col == "api_key_value" {
			t.Fatalf("key values must not be listed")
		}
	}
	none, err := p.Run(ctx, TacOrgAPIKeyList, map[string]any{"tac_id": f.tac.ID, "customer_code": "OTHER"}, PageRequest{})
	if err != nil || none.TotalCount != 0 {
		t.Fatalf("expected no keys for other customer: %+v %v", none, err)
	}

	flow, _, err := f.svc.CreateDynaFlow(ctx, domain.DynaFlow{
		TacID:       f.tac.ID,
		FlowType:    "plant_sample_workflow",
		Status:      domain.DynaFlowStatusStarted,
		RequestedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("flow: %v", err)
	}
	for i, status := range []domain.DynaFlowStatus{domain.DynaFlowStatusCompleted, domain.DynaFlowStatusStarted} {
		if _, _, err := f.svc.CreateDynaFlowTask(ctx, domain.DynaFlowTask{DynaFlowID: flow.ID, TaskType: "t", Sequence: i + 1, Status: status}); err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
	}
	flows, err := p.Run(ctx, TacDynaFlowList, map[string]any{"tac_id": f.tac.ID, "status": "started"}, PageRequest{})
	if err != nil {
		t.Fatalf("flows: %v", err)
	}
	if flows.TotalCount != 1 {
		t.Fatalf("expected one flow, got %d", flows.TotalCount)
	}
	row := flows.Items[0]
	if row["task_count"] != int64(2) || row["completed_task_count"] != int64(1) || row["is_cancel_requested"] != false {
		t.Fatalf("unexpected flow row %+v", row)
	}
	if row["completed_at"] != nil {
		t.Fatalf("expected NULL completed_at, got %v", row["completed_at"])
	}
}

func TestRunRejectsBadRequests(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()

	if _, err := p.Run(ctx, "nope", nil, PageRequest{}); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected report not found, got %v", err)
	}
	var perr ParameterError
	if _, err := p.Run(ctx, LandPlantList, nil, PageRequest{}); !errors.As(err, &perr) || perr.Param != "land_id" {
		t.Fatalf("expected missing land_id, got %v", err)
	}
	if _, err := p.Run(ctx, LandPlantList, map[string]any{"land_id": f.north.ID}, PageRequest{OrderByColumnName: "api_key_value"}); !errors.As(err, &perr) {
		t.Fatalf("expected order whitelist error, got %v", err)
	}
}

func TestRegisterCustomDefinition(t *testing.T) {
	f := newFarm(t)
	p := NewProvider(f.store.DB(), f.store.Dialect(), WithoutBuiltins())
	if len(p.Definitions()) != 0 {
		t.Fatalf("expected empty catalog")
	}
	if err := p.Register(Definition{Name: "broken"}); err == nil {
		t.Fatalf("expected validation error")
	}
	err := p.Register(Definition{
		Name:         "editable_plants",
		Query:        "SELECT id AS plant_id FROM plant WHERE land_id = :land_id AND is_edit_allowed = 1",
		Params:       []Param{{Name: "land_id", Required: true}},
		OrderColumns: []string{"plant_id"},
		DefaultOrder: "plant_id",
		KeyColumn:    "plant_id",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	page, err := p.Run(context.Background(), "editable_plants", map[string]any{"land_id": f.north.ID}, PageRequest{ItemCountPerPage: 100})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if page.TotalCount != 6 {
		t.Fatalf("expected 6 editable plants, got %d", page.TotalCount)
	}
}

func TestPagesOverTiedRowsNeitherRepeatNorSkip(t *testing.T) {
	f := newFarm(t)
	p := f.provider()
	ctx := context.Background()
	for i := 0; i < 24; i++ {
		if _, _, err := f.svc.CreateFlavor(ctx, domain.Flavor{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "Tied"}}); err != nil {
			t.Fatalf("flavor %d: %v", i, err)
		}
	}

	var ids []string
	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		res, err := p.Run(ctx, PacUserFlavorList, map[string]any{"pac_id": f.pac.ID}, PageRequest{PageNumber: page, ItemCountPerPage: 10})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		for _, item := range res.Items {
			id, _ := item["flavor_id"].(string)
			if seen[id] {
				t.Fatalf("flavor %s repeated on page %d", id, page)
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) != 25 {
		t.Fatalf("expected 25 flavors across pages, got %d", len(ids))
	}
	if !slices.IsSorted(ids) {
		t.Fatalf("tied rows not ordered by key: %v", ids)
	}
}
