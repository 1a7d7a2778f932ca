package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"farmcore/internal/business"
	"farmcore/internal/core"
	"farmcore/internal/dynaflow"
	"farmcore/pkg/domain"
)

// APIKeyPrefix starts every generated key value.
const APIKeyPrefix = "fck_"

// TacAddOrgAPIKeyRequest issues an API key for a tac.
type TacAddOrgAPIKeyRequest struct {
	TacID         string    `json:"tac_id"`
	Name          string    `json:"name"`
	CustomerCode  string    `json:"customer_code"`
	RoleNames     []string  `json:"role_names"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsTempUserKey bool      `json:"is_temp_user_key"`
}

// TacAddOrgAPIKey issues a key. The response is the only place the key
// value is returned.
func (c *Catalog) TacAddOrgAPIKey() Flow[TacAddOrgAPIKeyRequest, domain.OrgAPIKey] {
	return Flow[TacAddOrgAPIKeyRequest, domain.OrgAPIKey]{
		Name: TacAddOrgAPIKeyFlow,
		Validation: []Rule[TacAddOrgAPIKeyRequest]{
			RequiredID("tac_id", func(r TacAddOrgAPIKeyRequest) string { return r.TacID }),
			Required("name", func(r TacAddOrgAPIKeyRequest) string { return r.Name }),
			MaxLength("name", 100, func(r TacAddOrgAPIKeyRequest) string { return r.Name }),
			Required("customer_code", func(r TacAddOrgAPIKeyRequest) string { return r.CustomerCode }),
			MaxLength("customer_code", 50, func(r TacAddOrgAPIKeyRequest) string { return r.CustomerCode }),
			knownRoles,
			c.notExpired,
		},
		Security: []Rule[TacAddOrgAPIKeyRequest]{
			RequireAuthenticated[TacAddOrgAPIKeyRequest](),
			RequireRole[TacAddOrgAPIKeyRequest](RoleAdmin),
			RequireTacScope(func(_ context.Context, r TacAddOrgAPIKeyRequest) (string, error) { return r.TacID, nil }),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, sess SessionContext, req TacAddOrgAPIKeyRequest) (domain.OrgAPIKey, error) {
			return IssueAPIKey(ctx, c.svc, req, sess.UserID())
		},
	}
}

// IssueAPIKey stores a new key for req.TacID with a generated value. The CLI
// bootstrap calls it directly, without a session.
func IssueAPIKey(ctx context.Context, svc *core.Service, req TacAddOrgAPIKeyRequest, createdBy string) (domain.OrgAPIKey, error) {
	tac, err := business.LoadTac(ctx, svc, req.TacID)
	if err != nil {
		return domain.OrgAPIKey{}, err
	}
	key := tac.BuildOrgAPIKey().
		SetName(req.Name).
		SetAPIKeyValue(NewAPIKeyValue()).
		SetCustomerCode(req.CustomerCode).
		SetRoleNames(req.RoleNames).
		SetCreatedBy(createdBy).
		SetExpiresAt(req.ExpiresAt.UTC()).
		SetIsActive(true).
		SetIsTempUserKey(req.IsTempUserKey)
	if err := key.Save(ctx); err != nil {
		return domain.OrgAPIKey{}, err
	}
	return key.Record(), nil
}

func knownRoles(_ context.Context, _ SessionContext, r TacAddOrgAPIKeyRequest) error {
	if len(r.RoleNames) == 0 {
		return FlowValidationError{Field: "role_names", Message: "at least one role is required"}
	}
	for _, role := range r.RoleNames {
		if role != RoleAdmin && role != RoleUser {
			return FlowValidationError{Field: "role_names", Message: fmt.Sprintf("unknown role %q", role)}
		}
	}
	return nil
}

func (c *Catalog) notExpired(_ context.Context, _ SessionContext, r TacAddOrgAPIKeyRequest) error {
	if !r.ExpiresAt.IsZero() && !r.ExpiresAt.After(c.svc.Now()) {
		return FlowValidationError{Field: "expires_at", Message: "must be in the future"}
	}
	return nil
}

// NewAPIKeyValue returns a random key value.
func NewAPIKeyValue() string {
	return APIKeyPrefix + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// TacRequestDynaFlowRequest asks for a dyna flow run on behalf of a tac.
type TacRequestDynaFlowRequest struct {
	TacID       string          `json:"tac_id"`
	FlowType    string          `json:"flow_type"`
	Description string          `json:"description"`
	Param       json.RawMessage `json:"param,omitempty"`
	Priority    int             `json:"priority"`
}

// TacRequestDynaFlow stores and enqueues a dyna flow.
func (c *Catalog) TacRequestDynaFlow() Flow[TacRequestDynaFlowRequest, domain.DynaFlow] {
	return Flow[TacRequestDynaFlowRequest, domain.DynaFlow]{
		Name: TacRequestDynaFlowFlow,
		Validation: []Rule[TacRequestDynaFlowRequest]{
			RequiredID("tac_id", func(r TacRequestDynaFlowRequest) string { return r.TacID }),
			Required("flow_type", func(r TacRequestDynaFlowRequest) string { return r.FlowType }),
			MaxLength("description", 255, func(r TacRequestDynaFlowRequest) string { return r.Description }),
			c.knownFlowType,
			validParam,
		},
		Security: []Rule[TacRequestDynaFlowRequest]{
			RequireAuthenticated[TacRequestDynaFlowRequest](),
			RequireRole[TacRequestDynaFlowRequest](RoleAdmin, RoleUser),
			RequireTacScope(func(_ context.Context, r TacRequestDynaFlowRequest) (string, error) { return r.TacID, nil }),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req TacRequestDynaFlowRequest) (domain.DynaFlow, error) {
			d, err := c.dispatcher()
			if err != nil {
				return domain.DynaFlow{}, err
			}
			flow, err := d.Request(ctx, dynaflow.FlowRequest{
				TacID:       req.TacID,
				FlowType:    req.FlowType,
				Description: req.Description,
				Param:       string(req.Param),
				Priority:    req.Priority,
			})
			if err != nil && flow.ID != "" {
				// Stored but not queued; the worker requeues it on startup.
				c.svc.Logger().Warn("dyna flow stored without enqueue", "dyna_flow_id", flow.ID, "error", err)
				return flow, nil
			}
			return flow, err
		},
	}
}

func (c *Catalog) knownFlowType(_ context.Context, _ SessionContext, r TacRequestDynaFlowRequest) error {
	if r.FlowType == "" {
		return nil
	}
	d, err := c.dispatcher()
	if err != nil {
		return err
	}
	if _, ok := d.Registry().Lookup(r.FlowType); !ok {
		return FlowValidationError{Field: "flow_type", Message: fmt.Sprintf("unknown flow type %q", r.FlowType)}
	}
	return nil
}

func validParam(_ context.Context, _ SessionContext, r TacRequestDynaFlowRequest) error {
	if len(r.Param) > 0 && !gjson.ValidBytes(r.Param) {
		return FlowValidationError{Field: "param", Message: "must be valid JSON"}
	}
	return nil
}

// DynaFlowCancelRequest names the flow to cancel.
type DynaFlowCancelRequest struct {
	DynaFlowID string `json:"dyna_flow_id"`
}

// DynaFlowCancel requests cancellation of a dyna flow of the session's tac.
func (c *Catalog) DynaFlowCancel() Flow[DynaFlowCancelRequest, domain.DynaFlow] {
	return Flow[DynaFlowCancelRequest, domain.DynaFlow]{
		Name: DynaFlowCancelFlow,
		Validation: []Rule[DynaFlowCancelRequest]{
			RequiredID("dyna_flow_id", func(r DynaFlowCancelRequest) string { return r.DynaFlowID }),
		},
		Security: []Rule[DynaFlowCancelRequest]{
			RequireAuthenticated[DynaFlowCancelRequest](),
			RequireRole[DynaFlowCancelRequest](RoleAdmin, RoleUser),
			RequireTacScope(func(ctx context.Context, r DynaFlowCancelRequest) (string, error) {
				flow, err := c.svc.GetDynaFlow(ctx, r.DynaFlowID)
				if errors.As(err, new(domain.ErrNotFound)) {
					// Same answer as a flow of another tac.
					return "", nil
				}
				if err != nil {
					return "", err
				}
				return flow.TacID, nil
			}),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req DynaFlowCancelRequest) (domain.DynaFlow, error) {
			d, err := c.dispatcher()
			if err != nil {
				return domain.DynaFlow{}, err
			}
			flow, err := d.Cancel(ctx, req.DynaFlowID)
			if errors.Is(err, dynaflow.ErrFlowFinished) {
				return domain.DynaFlow{}, FlowValidationError{Field: "dyna_flow_id", Message: err.Error()}
			}
			return flow, err
		},
	}
}

// ErrDynaFlowsDisabled is returned by the dyna flow flows of a catalog built
// without a dispatcher.
var ErrDynaFlowsDisabled = errors.New("dyna flows are not configured")

func (c *Catalog) dispatcher() (*dynaflow.Dispatcher, error) {
	if c.dyna == nil {
		return nil, ErrDynaFlowsDisabled
	}
	return c.dyna, nil
}
