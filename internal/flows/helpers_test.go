package flows

import (
	"context"
	"testing"

	"farmcore/internal/core"
	"farmcore/internal/dynaflow"
	"farmcore/pkg/domain"
)

type farm struct {
	svc     *core.Service
	queue   *dynaflow.ChannelQueue
	catalog *Catalog
	pac     domain.Pac
	tac     domain.Tac
	flavor  domain.Flavor
	land    domain.Land
	other   domain.Pac
}

func newFarm(t *testing.T) farm {
	t.Helper()
	ctx := context.Background()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	queue := dynaflow.NewChannelQueue(8)
	f := farm{
		svc:     svc,
		queue:   queue,
		catalog: NewCatalog(svc, dynaflow.NewDispatcher(svc, nil, queue)),
	}
	var err error
	if f.pac, _, err = svc.CreatePac(ctx, domain.Pac{Lookup: domain.Lookup{Name: "Main", LookupEnumName: "Main"}}); err != nil {
		t.Fatalf("create pac: %v", err)
	}
	if f.other, _, err = svc.CreatePac(ctx, domain.Pac{Lookup: domain.Lookup{Name: "Other", LookupEnumName: "Other"}}); err != nil {
		t.Fatalf("create other pac: %v", err)
	}
	if f.tac, _, err = svc.CreateTac(ctx, domain.Tac{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "Tac"}}); err != nil {
		t.Fatalf("create tac: %v", err)
	}
	if f.flavor, _, err = svc.CreateFlavor(ctx, domain.Flavor{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "Sweet"}}); err != nil {
		t.Fatalf("create flavor: %v", err)
	}
	if f.land, _, err = svc.CreateLand(ctx, domain.Land{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "North"}}); err != nil {
		t.Fatalf("create land: %v", err)
	}
	return f
}

func (f farm) session(roles ...string) SessionContext {
	return SessionContext{
		CustomerCode:  "cust-1",
		TacID:         f.tac.ID,
		PacID:         f.pac.ID,
		RoleNames:     roles,
		Authenticated: true,
	}
}
