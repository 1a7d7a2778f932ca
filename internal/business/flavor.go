package business

import (
	"context"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// FlavorBusObj wraps a pac-scoped flavor lookup.
type FlavorBusObj struct {
	busObj[domain.Flavor, *domain.Flavor]
}

func flavorOps(svc *core.Service) ops[domain.Flavor] {
	return ops[domain.Flavor]{get: svc.GetFlavor, create: svc.CreateFlavor, update: svc.UpdateFlavor, delete: svc.DeleteFlavor}
}

// NewFlavor returns an unsaved FlavorBusObj.
func NewFlavor(svc *core.Service) *FlavorBusObj {
	b := &FlavorBusObj{}
	b.wrap(svc, flavorOps(svc), domain.Flavor{}, false)
	return b
}

// LoadFlavor loads the flavor with the given ID.
func LoadFlavor(ctx context.Context, svc *core.Service, id string) (*FlavorBusObj, error) {
	b := NewFlavor(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapFlavor(svc *core.Service, v domain.Flavor) *FlavorBusObj {
	b := &FlavorBusObj{}
	b.wrap(svc, flavorOps(svc), v, true)
	return b
}

// ListFlavors returns every stored flavor.
func ListFlavors(ctx context.Context, svc *core.Service) ([]*FlavorBusObj, error) {
	items, err := svc.ListFlavors(ctx)
	return wrapAll(items, err, func(v domain.Flavor) *FlavorBusObj { return wrapFlavor(svc, v) })
}

// SetPacID sets PacID.
func (b *FlavorBusObj) SetPacID(pacID string) *FlavorBusObj {
	b.rec.PacID = pacID
	return b
}

// SetName sets Name.
func (b *FlavorBusObj) SetName(name string) *FlavorBusObj {
	b.rec.Name = name
	return b
}

// SetDescription sets Description.
func (b *FlavorBusObj) SetDescription(description string) *FlavorBusObj {
	b.rec.Description = description
	return b
}

// SetDisplayOrder sets DisplayOrder.
func (b *FlavorBusObj) SetDisplayOrder(displayOrder int) *FlavorBusObj {
	b.rec.DisplayOrder = displayOrder
	return b
}

// SetIsActive sets IsActive.
func (b *FlavorBusObj) SetIsActive(isActive bool) *FlavorBusObj {
	b.rec.IsActive = isActive
	return b
}

// SetLookupEnumName sets LookupEnumName.
func (b *FlavorBusObj) SetLookupEnumName(lookupEnumName string) *FlavorBusObj {
	b.rec.LookupEnumName = lookupEnumName
	return b
}

// Pac loads the parent pac.
func (b *FlavorBusObj) Pac(ctx context.Context) (*PacBusObj, error) {
	return LoadPac(ctx, b.svc, b.rec.PacID)
}

// Plants lists the stored plants of b.
func (b *FlavorBusObj) Plants(ctx context.Context) ([]*PlantBusObj, error) {
	items, err := b.svc.ListPlantsByFlavor(ctx, b.ID())
	return wrapAll(items, err, func(v domain.Plant) *PlantBusObj { return wrapPlant(b.svc, v) })
}
