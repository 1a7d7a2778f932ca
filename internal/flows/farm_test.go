package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmcore/pkg/domain"
)

func TestPacAddLookups(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	admin := f.session(RoleAdmin)

	tac, err := f.catalog.PacAddTac().Process(ctx, admin, LookupRequest{PacID: f.pac.ID, Name: "Second", LookupEnumName: "Second", IsActive: true})
	if err != nil {
		t.Fatalf("add tac: %v", err)
	}
	if tac.PacID != f.pac.ID || tac.InsertUserID != "cust-1" {
		t.Fatalf("unexpected tac: %+v", tac)
	}
	flavor, err := f.catalog.PacAddFlavor().Process(ctx, admin, LookupRequest{PacID: f.pac.ID, Name: "Sour", DisplayOrder: 2})
	if err != nil || flavor.Name != "Sour" || flavor.DisplayOrder != 2 {
		t.Fatalf("add flavor: %+v %v", flavor, err)
	}
	land, err := f.catalog.PacAddLand().Process(ctx, admin, LookupRequest{PacID: f.pac.ID, Name: "South", Description: "river side"})
	if err != nil || land.Description != "river side" {
		t.Fatalf("add land: %+v %v", land, err)
	}

	_, err = f.catalog.PacAddLand().Process(ctx, admin, LookupRequest{PacID: f.pac.ID})
	var verr FlowValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}

	_, err = f.catalog.PacAddLand().Process(ctx, f.session(RoleUser), LookupRequest{PacID: f.pac.ID, Name: "West"})
	var serr FlowSecurityError
	if !errors.As(err, &serr) || serr.Flow != PacAddLandFlow {
		t.Fatalf("expected security error for user role, got %v", err)
	}

	_, err = f.catalog.PacAddTac().Process(ctx, admin, LookupRequest{PacID: f.other.ID, Name: "Intruder"})
	if !errors.As(err, &serr) {
		t.Fatalf("expected security error for foreign pac, got %v", err)
	}

	_, err = f.catalog.PacAddTac().Process(ctx, SessionContext{}, LookupRequest{PacID: f.pac.ID, Name: "Anon"})
	if !errors.As(err, &serr) {
		t.Fatalf("expected security error for anonymous session, got %v", err)
	}
}

func TestPlantLifecycleFlows(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	user := f.session(RoleUser)

	plant, err := f.catalog.LandAddPlant().Process(ctx, user, LandAddPlantRequest{
		LandID: f.land.ID,
		PlantFields: PlantFields{
			FlavorID:           f.flavor.ID,
			SomeIntVal:         3,
			SomeEmailAddress:   "grower@farm.example",
			SomePhoneNumber:    "+1 555 010 2030",
			SomeUTCDateTimeVal: time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600)),
		},
	})
	if err != nil {
		t.Fatalf("add plant: %v", err)
	}
	if plant.LandID != f.land.ID || plant.SomeUTCDateTimeVal.Location() != time.UTC {
		t.Fatalf("unexpected plant: %+v", plant)
	}

	_, err = f.catalog.LandAddPlant().Process(ctx, user, LandAddPlantRequest{
		LandID:      f.land.ID,
		PlantFields: PlantFields{FlavorID: f.flavor.ID, SomeEmailAddress: "not-an-email"},
	})
	var verr FlowValidationError
	if !errors.As(err, &verr) || verr.Field != "some_email_address" {
		t.Fatalf("expected email validation error, got %v", err)
	}

	saved, err := f.catalog.PlantUserSave().Process(ctx, user, PlantUserSaveRequest{
		PlantID:        plant.ID,
		LastChangeCode: plant.LastChangeCode,
		PlantFields:    PlantFields{FlavorID: f.flavor.ID, SomeIntVal: 4, SomeTextVal: "pruned"},
	})
	if err != nil {
		t.Fatalf("save plant: %v", err)
	}
	if saved.SomeIntVal != 4 || saved.SomeTextVal != "pruned" || saved.LastChangeCode == plant.LastChangeCode {
		t.Fatalf("unexpected saved plant: %+v", saved)
	}

	_, err = f.catalog.PlantUserSave().Process(ctx, user, PlantUserSaveRequest{
		PlantID:        plant.ID,
		LastChangeCode: plant.LastChangeCode,
		PlantFields:    PlantFields{FlavorID: f.flavor.ID},
	})
	var stale domain.ErrStaleRecord
	if !errors.As(err, &stale) {
		t.Fatalf("expected stale record error, got %v", err)
	}

	outsider := f.session(RoleUser)
	outsider.PacID = f.other.ID
	_, err = f.catalog.PlantUserDelete().Process(ctx, outsider, PlantDeleteRequest{PlantID: plant.ID})
	var serr FlowSecurityError
	if !errors.As(err, &serr) {
		t.Fatalf("expected security error for foreign pac, got %v", err)
	}

	res, err := f.catalog.PlantUserDelete().Process(ctx, user, PlantDeleteRequest{PlantID: plant.ID})
	if err != nil || !res.Deleted || res.ID != plant.ID {
		t.Fatalf("delete plant: %+v %v", res, err)
	}
	_, err = f.catalog.PlantUserDelete().Process(ctx, user, PlantDeleteRequest{PlantID: plant.ID})
	if !errors.As(err, new(domain.ErrNotFound)) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestPlantFlowsRejectFlavorsOfAnotherPac(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	user := f.session(RoleUser)
	foreign, _, err := f.svc.CreateFlavor(ctx, domain.Flavor{PacID: f.other.ID, Lookup: domain.Lookup{Name: "Bitter"}})
	if err != nil {
		t.Fatalf("create foreign flavor: %v", err)
	}

	_, err = f.catalog.LandAddPlant().Process(ctx, user, LandAddPlantRequest{
		LandID:      f.land.ID,
		PlantFields: PlantFields{FlavorID: foreign.ID},
	})
	var serr FlowSecurityError
	if !errors.As(err, &serr) || serr.Flow != LandAddPlantFlow {
		t.Fatalf("expected security error for foreign flavor, got %v", err)
	}
	if plants, _ := f.svc.ListPlantsByLand(ctx, f.land.ID); len(plants) != 0 {
		t.Fatalf("plant stored with foreign flavor: %+v", plants)
	}

	plant, err := f.catalog.LandAddPlant().Process(ctx, user, LandAddPlantRequest{
		LandID:      f.land.ID,
		PlantFields: PlantFields{FlavorID: f.flavor.ID},
	})
	if err != nil {
		t.Fatalf("add plant: %v", err)
	}
	_, err = f.catalog.PlantUserSave().Process(ctx, user, PlantUserSaveRequest{
		PlantID:        plant.ID,
		LastChangeCode: plant.LastChangeCode,
		PlantFields:    PlantFields{FlavorID: foreign.ID},
	})
	if !errors.As(err, &serr) || serr.Flow != PlantUserSaveFlow {
		t.Fatalf("expected security error when switching to foreign flavor, got %v", err)
	}

	_, err = f.catalog.LandAddPlant().Process(ctx, user, LandAddPlantRequest{
		LandID:      f.land.ID,
		PlantFields: PlantFields{FlavorID: "6f1c2a52-8c0e-4a43-9a55-3f1c7c0c2f10"},
	})
	if !errors.As(err, &serr) {
		t.Fatalf("expected unknown flavor to fail like a foreign one, got %v", err)
	}

	if _, err := f.svc.DeleteFlavor(ctx, foreign.ID); err != nil {
		t.Fatalf("other pac must keep control of its flavor: %v", err)
	}
}
