package reports

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"farmcore/internal/core"
	"farmcore/internal/infra/persistence/sqlite"
	"farmcore/pkg/domain"
)

type farm struct {
	store  *sqlite.Store
	svc    *core.Service
	pac    domain.Pac
	tac    domain.Tac
	flavor domain.Flavor
	north  domain.Land
	south  domain.Land
	plants []domain.Plant
}

// newFarm seeds a pac with one tac, one flavor, two lands and twelve plants
// on the north land (SomeIntVal 1..12, even values editable).
func newFarm(t *testing.T) *farm {
	t.Helper()
	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "farm.db"), core.NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	f := &farm{store: store, svc: core.NewService(store)}
	ctx := context.Background()
	if f.pac, _, err = f.svc.CreatePac(ctx, domain.Pac{Lookup: domain.Lookup{Name: "Main", IsActive: true}}); err != nil {
		t.Fatalf("pac: %v", err)
	}
	if f.tac, _, err = f.svc.CreateTac(ctx, domain.Tac{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "Tenant", IsActive: true}}); err != nil {
		t.Fatalf("tac: %v", err)
	}
	if f.flavor, _, err = f.svc.CreateFlavor(ctx, domain.Flavor{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "Sweet", LookupEnumName: "Sweet", IsActive: true}}); err != nil {
		t.Fatalf("flavor: %v", err)
	}
	if f.north, _, err = f.svc.CreateLand(ctx, domain.Land{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "North", DisplayOrder: 1, IsActive: true}}); err != nil {
		t.Fatalf("north: %v", err)
	}
	if f.south, _, err = f.svc.CreateLand(ctx, domain.Land{PacID: f.pac.ID, Lookup: domain.Lookup{Name: "South", DisplayOrder: 2}}); err != nil {
		t.Fatalf("south: %v", err)
	}
	planted := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		p, _, err := f.svc.CreatePlant(ctx, domain.Plant{
			LandID:             f.north.ID,
			FlavorID:           f.flavor.ID,
			SomeIntVal:         int32(i),
			SomeBigIntVal:      int64(i) * 1000,
			SomeMoneyVal:       1.5,
			IsEditAllowed:      i%2 == 0,
			SomeVarCharVal:     "row",
			SomeUTCDateTimeVal: planted.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("plant %d: %v", i, err)
		}
		f.plants = append(f.plants, p)
	}
	return f
}

func (f *farm) provider() *Provider {
	return NewProvider(f.store.DB(), f.store.Dialect())
}

func column(items []map[string]any, col string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item[col]
	}
	return out
}
