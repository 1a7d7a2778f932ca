package flows

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"farmcore/internal/dynaflow"
	"farmcore/pkg/domain"
)

func TestIssueAndAuthenticateAPIKey(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	admin := f.session(RoleAdmin)

	key, err := f.catalog.TacAddOrgAPIKey().Process(ctx, admin, TacAddOrgAPIKeyRequest{
		TacID:        f.tac.ID,
		Name:         "ci",
		CustomerCode: "cust-2",
		RoleNames:    []string{RoleUser},
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("issue key: %v", err)
	}
	if !strings.HasPrefix(key.APIKeyValue, APIKeyPrefix) || len(key.APIKeyValue) != len(APIKeyPrefix)+64 {
		t.Fatalf("unexpected key value %q", key.APIKeyValue)
	}
	if key.CreatedBy != "cust-1" || !key.IsActive {
		t.Fatalf("unexpected key: %+v", key)
	}

	auth := NewAuthenticator(f.svc)
	sess, err := auth.Authenticate(ctx, key.APIKeyValue)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !sess.Authenticated || sess.TacID != f.tac.ID || sess.PacID != f.pac.ID || sess.CustomerCode != "cust-2" || !sess.HasRole(RoleUser) {
		t.Fatalf("unexpected session: %+v", sess)
	}

	for _, value := range []string{"", "fck_unknown"} {
		if _, err := auth.Authenticate(ctx, value); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated for %q, got %v", value, err)
		}
	}

	if _, _, err := f.svc.UpdateOrgAPIKey(ctx, key.ID, "", func(k *domain.OrgAPIKey) error {
		k.IsActive = false
		return nil
	}); err != nil {
		t.Fatalf("deactivate key: %v", err)
	}
	if _, err := auth.Authenticate(ctx, key.APIKeyValue); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("inactive key must not authenticate, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredKey(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	if _, _, err := f.svc.CreateOrgAPIKey(ctx, domain.OrgAPIKey{
		TacID:       f.tac.ID,
		Name:        "short-lived",
		APIKeyValue: "fck_short_lived",
		RoleNames:   []string{RoleAdmin},
		IsActive:    true,
		ExpiresAt:   time.Now().Add(20 * time.Millisecond),
	}); err != nil {
		t.Fatalf("create key: %v", err)
	}
	auth := NewAuthenticator(f.svc)
	if _, err := auth.Authenticate(ctx, "fck_short_lived"); err != nil {
		t.Fatalf("fresh key rejected: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := auth.Authenticate(ctx, "fck_short_lived"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired key must not authenticate, got %v", err)
	}
}

func TestTacAddOrgAPIKeyValidation(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	admin := f.session(RoleAdmin)
	valid := TacAddOrgAPIKeyRequest{TacID: f.tac.ID, Name: "ci", CustomerCode: "c", RoleNames: []string{RoleAdmin}}

	cases := map[string]func(*TacAddOrgAPIKeyRequest){
		"role_names":    func(r *TacAddOrgAPIKeyRequest) { r.RoleNames = []string{"root"} },
		"expires_at":    func(r *TacAddOrgAPIKeyRequest) { r.ExpiresAt = time.Now().Add(-time.Hour) },
		"customer_code": func(r *TacAddOrgAPIKeyRequest) { r.CustomerCode = "" },
		"tac_id":        func(r *TacAddOrgAPIKeyRequest) { r.TacID = "tac" },
	}
	for field, mutate := range cases {
		req := valid
		mutate(&req)
		_, err := f.catalog.TacAddOrgAPIKey().Process(ctx, admin, req)
		var verr FlowValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
	}

	_, err := f.catalog.TacAddOrgAPIKey().Process(ctx, f.session(RoleUser), valid)
	if !errors.As(err, new(FlowSecurityError)) {
		t.Fatalf("user role must not issue keys, got %v", err)
	}
}

func TestDynaFlowRequestAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	user := f.session(RoleUser)

	flow, err := f.catalog.TacRequestDynaFlow().Process(ctx, user, TacRequestDynaFlowRequest{
		TacID:    f.tac.ID,
		FlowType: dynaflow.PlantSampleWorkflow,
		Param:    json.RawMessage(`{"plant_id":"p-1"}`),
	})
	if err != nil {
		t.Fatalf("request flow: %v", err)
	}
	if flow.Status != domain.DynaFlowStatusRequested || flow.TacID != f.tac.ID {
		t.Fatalf("unexpected flow: %+v", flow)
	}
	if f.queue.Len() != 1 {
		t.Fatalf("expected the flow to be queued")
	}

	_, err = f.catalog.TacRequestDynaFlow().Process(ctx, user, TacRequestDynaFlowRequest{TacID: f.tac.ID, FlowType: "unknown_workflow"})
	var verr FlowValidationError
	if !errors.As(err, &verr) || verr.Field != "flow_type" {
		t.Fatalf("expected flow_type validation error, got %v", err)
	}
	_, err = f.catalog.TacRequestDynaFlow().Process(ctx, user, TacRequestDynaFlowRequest{
		TacID: f.tac.ID, FlowType: dynaflow.PlantSampleWorkflow, Param: json.RawMessage(`{oops`),
	})
	if !errors.As(err, &verr) || verr.Field != "param" {
		t.Fatalf("expected param validation error, got %v", err)
	}

	outsider := f.session(RoleUser)
	outsider.TacID = "another-tac"
	if _, err := f.catalog.DynaFlowCancel().Process(ctx, outsider, DynaFlowCancelRequest{DynaFlowID: flow.ID}); !errors.As(err, new(FlowSecurityError)) {
		t.Fatalf("expected security error for foreign tac, got %v", err)
	}

	canceled, err := f.catalog.DynaFlowCancel().Process(ctx, user, DynaFlowCancelRequest{DynaFlowID: flow.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != domain.DynaFlowStatusCanceled || !canceled.IsCancelRequested {
		t.Fatalf("unexpected canceled flow: %+v", canceled)
	}
	_, err = f.catalog.DynaFlowCancel().Process(ctx, user, DynaFlowCancelRequest{DynaFlowID: flow.ID})
	if !errors.As(err, &verr) || verr.Field != "dyna_flow_id" {
		t.Fatalf("expected validation error for finished flow, got %v", err)
	}
}

func TestDynaFlowCancelHidesUnknownFlows(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)

	_, err := f.catalog.DynaFlowCancel().Process(ctx, f.session(RoleUser), DynaFlowCancelRequest{DynaFlowID: uuid.NewString()})
	var sec FlowSecurityError
	if !errors.As(err, &sec) {
		t.Fatalf("expected security error for unknown flow, got %v", err)
	}
	if sec.Flow != DynaFlowCancelFlow {
		t.Fatalf("expected flow name on error, got %+v", sec)
	}
}

func TestDynaFlowFlowsWithoutDispatcher(t *testing.T) {
	ctx := context.Background()
	f := newFarm(t)
	catalog := NewCatalog(f.svc, nil)
	user := f.session(RoleUser)

	_, err := catalog.TacRequestDynaFlow().Process(ctx, user, TacRequestDynaFlowRequest{
		TacID:    f.tac.ID,
		FlowType: dynaflow.PlantSampleWorkflow,
	})
	if !errors.Is(err, ErrDynaFlowsDisabled) {
		t.Fatalf("expected ErrDynaFlowsDisabled on request, got %v", err)
	}

	flow, _, err := f.svc.CreateDynaFlow(ctx, domain.DynaFlow{
		TacID:    f.tac.ID,
		FlowType: dynaflow.PlantSampleWorkflow,
		Status:   domain.DynaFlowStatusRequested,
	})
	if err != nil {
		t.Fatalf("create flow: %v", err)
	}
	if _, err := catalog.DynaFlowCancel().Process(ctx, user, DynaFlowCancelRequest{DynaFlowID: flow.ID}); !errors.Is(err, ErrDynaFlowsDisabled) {
		t.Fatalf("expected ErrDynaFlowsDisabled on cancel, got %v", err)
	}
}
