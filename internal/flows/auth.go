package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmcore/internal/core"
	"farmcore/pkg/domain"
)

// ErrUnauthenticated is wrapped when an API key cannot open a session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves API key values to sessions.
type Authenticator struct {
	svc *core.Service
}

// NewAuthenticator returns an authenticator over svc.
func NewAuthenticator(svc *core.Service) *Authenticator {
	return &Authenticator{svc: svc}
}

// Authenticate returns the session of an active, unexpired key.
func (a *Authenticator) Authenticate(ctx context.Context, value string) (SessionContext, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SessionContext{}, fmt.Errorf("%w: api key missing", ErrUnauthenticated)
	}
	key, ok, err := a.svc.FindOrgAPIKeyByValue(ctx, value)
	if err != nil {
		return SessionContext{}, err
	}
	if !ok {
		return SessionContext{}, fmt.Errorf("%w: api key not recognised", ErrUnauthenticated)
	}
	if !key.IsActive {
		return SessionContext{}, fmt.Errorf("%w: api key %s is inactive", ErrUnauthenticated, key.ID)
	}
	if key.Expired(a.svc.Now()) {
		return SessionContext{}, fmt.Errorf("%w: api key %s expired", ErrUnauthenticated, key.ID)
	}
	tac, err := a.svc.GetTac(ctx, key.TacID)
	if err != nil {
		if errors.As(err, new(domain.ErrNotFound)) {
			return SessionContext{}, fmt.Errorf("%w: api key %s has no tac", ErrUnauthenticated, key.ID)
		}
		return SessionContext{}, err
	}
	return SessionContext{
		CustomerCode:  key.CustomerCode,
		TacID:         tac.ID,
		PacID:         tac.PacID,
		RoleNames:     append([]string(nil), key.RoleNames...),
		Authenticated: true,
		APIKeyID:      key.ID,
	}, nil
}
