package core

import (
	"context"
	"testing"
)

type fixture struct {
	pac    Pac
	tac    Tac
	flavor Flavor
	land   Land
	plant  Plant
}

func seedFixture(t *testing.T, svc *Service) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error
	if f.pac, _, err = svc.CreatePac(ctx, Pac{Lookup: Lookup{Name: "Pac", LookupEnumName: "Main", IsActive: true}}); err != nil {
		t.Fatalf("create pac: %v", err)
	}
	if f.tac, _, err = svc.CreateTac(ctx, Tac{PacID: f.pac.ID, Lookup: Lookup{Name: "Tac"}}); err != nil {
		t.Fatalf("create tac: %v", err)
	}
	if f.flavor, _, err = svc.CreateFlavor(ctx, Flavor{PacID: f.pac.ID, Lookup: Lookup{Name: "Sweet", LookupEnumName: "Sweet"}}); err != nil {
		t.Fatalf("create flavor: %v", err)
	}
	if f.land, _, err = svc.CreateLand(ctx, Land{PacID: f.pac.ID, Lookup: Lookup{Name: "North", LookupEnumName: "North"}}); err != nil {
		t.Fatalf("create land: %v", err)
	}
	if f.plant, _, err = svc.CreatePlant(ctx, Plant{LandID: f.land.ID, FlavorID: f.flavor.ID, SomeTextVal: "seed"}); err != nil {
		t.Fatalf("create plant: %v", err)
	}
	return f
}
