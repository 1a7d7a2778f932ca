package business

import (
	"context"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// TacBusObj wraps a tac (tenant) of a pac.
type TacBusObj struct {
	busObj[domain.Tac, *domain.Tac]
}

func tacOps(svc *core.Service) ops[domain.Tac] {
	return ops[domain.Tac]{get: svc.GetTac, create: svc.CreateTac, update: svc.UpdateTac, delete: svc.DeleteTac}
}

// NewTac returns an unsaved TacBusObj.
func NewTac(svc *core.Service) *TacBusObj {
	b := &TacBusObj{}
	b.wrap(svc, tacOps(svc), domain.Tac{}, false)
	return b
}

// LoadTac loads the tac with the given ID.
func LoadTac(ctx context.Context, svc *core.Service, id string) (*TacBusObj, error) {
	b := NewTac(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapTac(svc *core.Service, v domain.Tac) *TacBusObj {
	b := &TacBusObj{}
	b.wrap(svc, tacOps(svc), v, true)
	return b
}

// ListTacs returns every stored tac.
func ListTacs(ctx context.Context, svc *core.Service) ([]*TacBusObj, error) {
	items, err := svc.ListTacs(ctx)
	return wrapAll(items, err, func(v domain.Tac) *TacBusObj { return wrapTac(svc, v) })
}

// SetPacID sets PacID.
func (b *TacBusObj) SetPacID(pacID string) *TacBusObj {
	b.rec.PacID = pacID
	return b
}

// SetName sets Name.
func (b *TacBusObj) SetName(name string) *TacBusObj {
	b.rec.Name = name
	return b
}

// SetDescription sets Description.
func (b *TacBusObj) SetDescription(description string) *TacBusObj {
	b.rec.Description = description
	return b
}

// SetDisplayOrder sets DisplayOrder.
func (b *TacBusObj) SetDisplayOrder(displayOrder int) *TacBusObj {
	b.rec.DisplayOrder = displayOrder
	return b
}

// SetIsActive sets IsActive.
func (b *TacBusObj) SetIsActive(isActive bool) *TacBusObj {
	b.rec.IsActive = isActive
	return b
}

// SetLookupEnumName sets LookupEnumName.
func (b *TacBusObj) SetLookupEnumName(lookupEnumName string) *TacBusObj {
	b.rec.LookupEnumName = lookupEnumName
	return b
}

// Pac loads the parent pac.
func (b *TacBusObj) Pac(ctx context.Context) (*PacBusObj, error) {
	return LoadPac(ctx, b.svc, b.rec.PacID)
}

// BuildOrgAPIKey returns an unsaved orgapi key owned by b.
func (b *TacBusObj) BuildOrgAPIKey() *OrgAPIKeyBusObj {
	return NewOrgAPIKey(b.svc).SetTacID(b.ID())
}

// OrgAPIKeys lists the stored orgapi keys of b.
func (b *TacBusObj) OrgAPIKeys(ctx context.Context) ([]*OrgAPIKeyBusObj, error) {
	items, err := b.svc.ListOrgAPIKeysByTac(ctx, b.ID())
	return wrapAll(items, err, func(v domain.OrgAPIKey) *OrgAPIKeyBusObj { return wrapOrgAPIKey(b.svc, v) })
}

// BuildDynaFlow returns an unsaved dyna flow owned by b.
func (b *TacBusObj) BuildDynaFlow() *DynaFlowBusObj {
	return NewDynaFlow(b.svc).SetTacID(b.ID())
}

// DynaFlows lists the stored dyna flows of b.
func (b *TacBusObj) DynaFlows(ctx context.Context) ([]*DynaFlowBusObj, error) {
	items, err := b.svc.ListDynaFlowsByTac(ctx, b.ID())
	return wrapAll(items, err, func(v domain.DynaFlow) *DynaFlowBusObj { return wrapDynaFlow(b.svc, v) })
}
