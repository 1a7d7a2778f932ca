package business

import (
	"context"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// LandBusObj wraps a land owned by a pac.
type LandBusObj struct {
	busObj[domain.Land, *domain.Land]
}

func landOps(svc *core.Service) ops[domain.Land] {
	return ops[domain.Land]{get: svc.GetLand, create: svc.CreateLand, update: svc.UpdateLand, delete: svc.DeleteLand}
}

// NewLand returns an unsaved LandBusObj.
func NewLand(svc *core.Service) *LandBusObj {
	b := &LandBusObj{}
	b.wrap(svc, landOps(svc), domain.Land{}, false)
	return b
}

// LoadLand loads the land with the given ID.
func LoadLand(ctx context.Context, svc *core.Service, id string) (*LandBusObj, error) {
	b := NewLand(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapLand(svc *core.Service, v domain.Land) *LandBusObj {
	b := &LandBusObj{}
	b.wrap(svc, landOps(svc), v, true)
	return b
}

// ListLands returns every stored land.
func ListLands(ctx context.Context, svc *core.Service) ([]*LandBusObj, error) {
	items, err := svc.ListLands(ctx)
	return wrapAll(items, err, func(v domain.Land) *LandBusObj { return wrapLand(svc, v) })
}

// SetPacID sets PacID.
func (b *LandBusObj) SetPacID(pacID string) *LandBusObj {
	b.rec.PacID = pacID
	return b
}

// SetName sets Name.
func (b *LandBusObj) SetName(name string) *LandBusObj {
	b.rec.Name = name
	return b
}

// SetDescription sets Description.
func (b *LandBusObj) SetDescription(description string) *LandBusObj {
	b.rec.Description = description
	return b
}

// SetDisplayOrder sets DisplayOrder.
func (b *LandBusObj) SetDisplayOrder(displayOrder int) *LandBusObj {
	b.rec.DisplayOrder = displayOrder
	return b
}

// SetIsActive sets IsActive.
func (b *LandBusObj) SetIsActive(isActive bool) *LandBusObj {
	b.rec.IsActive = isActive
	return b
}

// SetLookupEnumName sets LookupEnumName.
func (b *LandBusObj) SetLookupEnumName(lookupEnumName string) *LandBusObj {
	b.rec.LookupEnumName = lookupEnumName
	return b
}

// Pac loads the parent pac.
func (b *LandBusObj) Pac(ctx context.Context) (*PacBusObj, error) {
	return LoadPac(ctx, b.svc, b.rec.PacID)
}

// BuildPlant returns an unsaved plant owned by b.
func (b *LandBusObj) BuildPlant() *PlantBusObj {
	return NewPlant(b.svc).SetLandID(b.ID())
}

// Plants lists the stored plants of b.
func (b *LandBusObj) Plants(ctx context.Context) ([]*PlantBusObj, error) {
	items, err := b.svc.ListPlantsByLand(ctx, b.ID())
	return wrapAll(items, err, func(v domain.Plant) *PlantBusObj { return wrapPlant(b.svc, v) })
}
