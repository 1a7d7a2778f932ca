package business

import (
	"context"
	"time"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// OrgAPIKeyBusObj wraps an API key issued by a tac.
type OrgAPIKeyBusObj struct {
	busObj[domain.OrgAPIKey, *domain.OrgAPIKey]
}

func orgAPIKeyOps(svc *core.Service) ops[domain.OrgAPIKey] {
	return ops[domain.OrgAPIKey]{get: svc.GetOrgAPIKey, create: svc.CreateOrgAPIKey, update: svc.UpdateOrgAPIKey, delete: svc.DeleteOrgAPIKey}
}

// NewOrgAPIKey returns an unsaved OrgAPIKeyBusObj.
func NewOrgAPIKey(svc *core.Service) *OrgAPIKeyBusObj {
	b := &OrgAPIKeyBusObj{}
	b.wrap(svc, orgAPIKeyOps(svc), domain.OrgAPIKey{}, false)
	return b
}

// LoadOrgAPIKey loads the orgapi key with the given ID.
func LoadOrgAPIKey(ctx context.Context, svc *core.Service, id string) (*OrgAPIKeyBusObj, error) {
	b := NewOrgAPIKey(svc)
	if err := b.LoadFromID(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

func wrapOrgAPIKey(svc *core.Service, v domain.OrgAPIKey) *OrgAPIKeyBusObj {
	b := &OrgAPIKeyBusObj{}
	b.wrap(svc, orgAPIKeyOps(svc), v, true)
	return b
}

// ListOrgAPIKeys returns every stored orgapi key.
func ListOrgAPIKeys(ctx context.Context, svc *core.Service) ([]*OrgAPIKeyBusObj, error) {
	items, err := svc.ListOrgAPIKeys(ctx)
	return wrapAll(items, err, func(v domain.OrgAPIKey) *OrgAPIKeyBusObj { return wrapOrgAPIKey(svc, v) })
}

// SetTacID sets TacID.
func (b *OrgAPIKeyBusObj) SetTacID(tacID string) *OrgAPIKeyBusObj {
	b.rec.TacID = tacID
	return b
}

// SetName sets Name.
func (b *OrgAPIKeyBusObj) SetName(name string) *OrgAPIKeyBusObj {
	b.rec.Name = name
	return b
}

// SetAPIKeyValue sets APIKeyValue.
func (b *OrgAPIKeyBusObj) SetAPIKeyValue(apiKeyValue string) *OrgAPIKeyBusObj {
	b.rec.APIKeyValue = apiKeyValue
	return b
}

// SetCustomerCode sets CustomerCode.
func (b *OrgAPIKeyBusObj) SetCustomerCode(customerCode string) *OrgAPIKeyBusObj {
	b.rec.CustomerCode = customerCode
	return b
}

// SetRoleNames sets RoleNames.
func (b *OrgAPIKeyBusObj) SetRoleNames(roleNames []string) *OrgAPIKeyBusObj {
	b.rec.RoleNames = append([]string(nil), roleNames...)
	return b
}

// SetCreatedBy sets CreatedBy.
func (b *OrgAPIKeyBusObj) SetCreatedBy(createdBy string) *OrgAPIKeyBusObj {
	b.rec.CreatedBy = createdBy
	return b
}

// SetExpiresAt sets ExpiresAt.
func (b *OrgAPIKeyBusObj) SetExpiresAt(expiresAt time.Time) *OrgAPIKeyBusObj {
	b.rec.ExpiresAt = expiresAt
	return b
}

// SetIsActive sets IsActive.
func (b *OrgAPIKeyBusObj) SetIsActive(isActive bool) *OrgAPIKeyBusObj {
	b.rec.IsActive = isActive
	return b
}

// SetIsTempUserKey sets IsTempUserKey.
func (b *OrgAPIKeyBusObj) SetIsTempUserKey(isTempUserKey bool) *OrgAPIKeyBusObj {
	b.rec.IsTempUserKey = isTempUserKey
	return b
}

// Tac loads the parent tac.
func (b *OrgAPIKeyBusObj) Tac(ctx context.Context) (*TacBusObj, error) {
	return LoadTac(ctx, b.svc, b.rec.TacID)
}
