// Package flows gates business actions behind ordered validation and
// security rules evaluated against the caller's session.
package flows

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// Role names carried on API keys.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SessionContext identifies the caller of a flow.
type SessionContext struct {
	CustomerCode  string   `json:"customer_code"`
	TacID         string   `json:"tac_id"`
	PacID         string   `json:"pac_id"`
	RoleNames     []string `json:"role_names"`
	Authenticated bool     `json:"authenticated"`
	APIKeyID      string   `json:"api_key_id,omitempty"`
}

// HasRole reports whether the session carries role.
func (s SessionContext) HasRole(role string) bool {
	return slices.Contains(s.RoleNames, role)
}

// UserID is recorded as the acting user on records the session writes.
func (s SessionContext) UserID() string {
	if s.CustomerCode != "" {
		return s.CustomerCode
	}
	return s.APIKeyID
}

// FlowValidationError reports an invalid request field.
type FlowValidationError struct {
	Field   string
	Message string
}

func (e FlowValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FlowSecurityError reports a caller not allowed to run the flow.
type FlowSecurityError struct {
	Flow    string
	Message string
}

func (e FlowSecurityError) Error() string {
	if e.Flow == "" {
		return "forbidden: " + e.Message
	}
	return fmt.Sprintf("%s forbidden: %s", e.Flow, e.Message)
}

// Rule checks one condition of a flow request.
type Rule[Req any] func(ctx context.Context, sess SessionContext, req Req) error

// Flow runs its validation rules, then its security rules, then Action. The
// first failing rule ends processing.
type Flow[Req, Resp any] struct {
	Name       string
	Validation []Rule[Req]
	Security   []Rule[Req]
	Action     func(ctx context.Context, sess SessionContext, req Req) (Resp, error)
	Logger     core.Logger
}

// Process executes the flow for sess.
func (f Flow[Req, Resp]) Process(ctx context.Context, sess SessionContext, req Req) (Resp, error) {
	var zero Resp
	logger := f.Logger
	if logger == nil {
		logger = core.NoopLogger()
	}
	for _, rule := range f.Validation {
		if err := rule(ctx, sess, req); err != nil {
			logger.Debug("flow validation failed", "flow", f.Name, "error", err)
			return zero, err
		}
	}
	for _, rule := range f.Security {
		if err := rule(ctx, sess, req); err != nil {
			var sec FlowSecurityError
			if errors.As(err, &sec) && sec.Flow == "" {
				sec.Flow = f.Name
				err = sec
			}
			logger.Warn("flow rejected", "flow", f.Name, "customer_code", sess.CustomerCode, "tac_id", sess.TacID, "error", err)
			return zero, err
		}
	}
	ctx = domain.WithUserID(ctx, sess.UserID())
	resp, err := f.Action(ctx, sess, req)
	if err != nil {
		logger.Warn("flow action failed", "flow", f.Name, "error", err)
		return zero, err
	}
	logger.Debug("flow processed", "flow", f.Name, "customer_code", sess.CustomerCode)
	return resp, nil
}
