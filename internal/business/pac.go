package business

import (
	"context"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// PacBusObj is the business object for the root pac record.
type PacBusObj struct {
	busObj[domain.Pac, *domain.Pac]
}

func pacOps(svc *core.Service) ops[domain.Pac] {
	return ops[domain.Pac]{get: svc.GetPac, create: svc.CreatePac, update: svc.UpdatePac, delete: svc.DeletePac}
}

// NewPac returns an unsaved PacBusObj.
func NewPac(svc *core.Service) *PacBusObj {
	b := &PacBusObj{}
	b.wrap(svc, pacOps(svc), domain.Pac{}, false)
	return b
}

// LoadPac loads the pac with the given ID.
func LoadPac(ctx context.Context, svc *core.Service, id string) (*PacBusObj, error) {
	b := NewPac(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapPac(svc *core.Service, v domain.Pac) *PacBusObj {
	b := &PacBusObj{}
	b.wrap(svc, pacOps(svc), v, true)
	return b
}

// ListPacs returns every stored pac.
func ListPacs(ctx context.Context, svc *core.Service) ([]*PacBusObj, error) {
	items, err := svc.ListPacs(ctx)
	return wrapAll(items, err, func(v domain.Pac) *PacBusObj { return wrapPac(svc, v) })
}

// SetName sets Name.
func (b *PacBusObj) SetName(name string) *PacBusObj {
	b.rec.Name = name
	return b
}

// SetDescription sets Description.
func (b *PacBusObj) SetDescription(description string) *PacBusObj {
	b.rec.Description = description
	return b
}

// SetDisplayOrder sets DisplayOrder.
func (b *PacBusObj) SetDisplayOrder(displayOrder int) *PacBusObj {
	b.rec.DisplayOrder = displayOrder
	return b
}

// SetIsActive sets IsActive.
func (b *PacBusObj) SetIsActive(isActive bool) *PacBusObj {
	b.rec.IsActive = isActive
	return b
}

// SetLookupEnumName sets LookupEnumName.
func (b *PacBusObj) SetLookupEnumName(lookupEnumName string) *PacBusObj {
	b.rec.LookupEnumName = lookupEnumName
	return b
}

// BuildTac returns an unsaved tac owned by b.
func (b *PacBusObj) BuildTac() *TacBusObj {
	return NewTac(b.svc).SetPacID(b.ID())
}

// Tacs lists the stored tacs of b.
func (b *PacBusObj) Tacs(ctx context.Context) ([]*TacBusObj, error) {
	items, err := b.svc.ListTacsByPac(ctx, b.ID())
	return wrapAll(items, err, func(v domain.Tac) *TacBusObj { return wrapTac(b.svc, v) })
}

// BuildFlavor returns an unsaved flavor owned by b.
func (b *PacBusObj) BuildFlavor() *FlavorBusObj {
	return NewFlavor(b.svc).SetPacID(b.ID())
}

// Flavors lists the stored flavors of b.
func (b *PacBusObj) Flavors(ctx context.Context) ([]*FlavorBusObj, error) {
	items, err := b.svc.ListFlavorsByPac(ctx, b.ID())
	return wrapAll(items, err, func(v domain.Flavor) *FlavorBusObj { return wrapFlavor(b.svc, v) })
}

// BuildLand returns an unsaved land owned by b.
func (b *PacBusObj) BuildLand() *LandBusObj {
	return NewLand(b.svc).SetPacID(b.ID())
}

// Lands lists the stored lands of b.
func (b *PacBusObj) Lands(ctx context.Context) ([]*LandBusObj, error) {
	items, err := b.svc.ListLandsByPac(ctx, b.ID())
	return wrapAll(items, err, func(v domain.Land) *LandBusObj { return wrapLand(b.svc, v) })
}
