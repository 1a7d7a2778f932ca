package core

import (
	"context"
	"fmt"
	"time"

	"farmcore/pkg/domain"
)

const (
	apiKeyUniqueValueRuleName = "api_key_unique_value"
	apiKeyExpiryRuleName      = "api_key_expiry"
)

// APIKeyUniqueValueRule blocks API keys with an empty or duplicated secret value.
func APIKeyUniqueValueRule() domain.Rule {
	return apiKeyUniqueValueRule{}
}

type apiKeyUniqueValueRule struct{}

func (apiKeyUniqueValueRule) Name() string { return apiKeyUniqueValueRuleName }

func (apiKeyUniqueValueRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, c := range changed(changes) {
		key, ok := c.After.(domain.OrgAPIKey)
		if !ok {
			continue
		}
		if key.APIKeyValue == "" {
			res.Violations = append(res.Violations, block(apiKeyUniqueValueRuleName, EntityOrgAPIKey, key.ID, "api key value is required"))
			continue
		}
		for _, other := range view.ListOrgAPIKeys() {
			if other.ID != key.ID && other.APIKeyValue == key.APIKeyValue {
				res.Violations = append(res.Violations, block(apiKeyUniqueValueRuleName, EntityOrgAPIKey, key.ID,
					fmt.Sprintf("api key value already issued to key %s", other.ID)))
				break
			}
		}
	}
	return res, nil
}

// APIKeyExpiryRule blocks keys that expire before they were created and
// warns about keys saved as active although already expired.
func APIKeyExpiryRule() domain.Rule {
	return apiKeyExpiryRule{}
}

type apiKeyExpiryRule struct{}

func (apiKeyExpiryRule) Name() string { return apiKeyExpiryRuleName }

func (apiKeyExpiryRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	for _, c := range changed(changes) {
		key, ok := c.After.(domain.OrgAPIKey)
		if !ok || key.ExpiresAt.IsZero() {
			continue
		}
		if key.ExpiresAt.Before(key.CreatedAt) {
			res.Violations = append(res.Violations, block(apiKeyExpiryRuleName, EntityOrgAPIKey, key.ID,
				fmt.Sprintf("api key expires at %s before it was created", key.ExpiresAt.Format(time.RFC3339))))
			continue
		}
		if key.IsActive && key.Expired(key.UpdatedAt) {
			res.Violations = append(res.Violations, Violation{
				Rule:     apiKeyExpiryRuleName,
				Severity: SeverityWarn,
				Message:  "api key is marked active but already expired",
				Entity:   EntityOrgAPIKey,
				EntityID: key.ID,
			})
		}
	}
	return res, nil
}
