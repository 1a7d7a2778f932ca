package flows

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ().-]+$`)
)

// Required rejects a blank field.
func Required[Req any](field string, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		if strings.TrimSpace(get(req)) == "" {
			return FlowValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// RequiredID rejects a blank or malformed record identifier.
func RequiredID[Req any](field string, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		v := strings.TrimSpace(get(req))
		if v == "" {
			return FlowValidationError{Field: field, Message: "is required"}
		}
		if _, err := uuid.Parse(v); err != nil {
			return FlowValidationError{Field: field, Message: "is not a valid id"}
		}
		return nil
	}
}

// OptionalID rejects a malformed identifier but allows an empty one.
func OptionalID[Req any](field string, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		v := strings.TrimSpace(get(req))
		if v == "" {
			return nil
		}
		if _, err := uuid.Parse(v); err != nil {
			return FlowValidationError{Field: field, Message: "is not a valid id"}
		}
		return nil
	}
}

// MaxLength rejects values longer than limit characters.
func MaxLength[Req any](field string, limit int, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		if n := utf8.RuneCountInString(get(req)); n > limit {
			return FlowValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters, got %d", limit, n)}
		}
		return nil
	}
}

// EmailFormat rejects a non-empty value that is not an email address.
func EmailFormat[Req any](field string, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		v := get(req)
		if v != "" && !emailPattern.MatchString(v) {
			return FlowValidationError{Field: field, Message: "is not a valid email address"}
		}
		return nil
	}
}

// PhoneFormat rejects a non-empty value that is not a phone number of 7 to
// 15 digits.
func PhoneFormat[Req any](field string, get func(Req) string) Rule[Req] {
	return func(_ context.Context, _ SessionContext, req Req) error {
		v := get(req)
		if v == "" {
			return nil
		}
		digits := 0
		for _, r := range v {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if !phonePattern.MatchString(v) || digits < 7 || digits > 15 {
			return FlowValidationError{Field: field, Message: "is not a valid phone number"}
		}
		return nil
	}
}

// RequireAuthenticated rejects anonymous sessions.
func RequireAuthenticated[Req any]() Rule[Req] {
	return func(_ context.Context, sess SessionContext, _ Req) error {
		if !sess.Authenticated {
			return FlowSecurityError{Message: "authentication required"}
		}
		return nil
	}
}

// RequireRole passes when the session holds any of roles.
func RequireRole[Req any](roles ...string) Rule[Req] {
	return func(_ context.Context, sess SessionContext, _ Req) error {
		for _, role := range roles {
			if sess.HasRole(role) {
				return nil
			}
		}
		return FlowSecurityError{Message: fmt.Sprintf("requires role %s", strings.Join(roles, " or "))}
	}
}

// RequireTacScope passes when the tac owning the request is the session's tac.
func RequireTacScope[Req any](tacOf func(ctx context.Context, req Req) (string, error)) Rule[Req] {
	return func(ctx context.Context, sess SessionContext, req Req) error {
		tacID, err := tacOf(ctx, req)
		if err != nil {
			return err
		}
		if tacID == "" || tacID != sess.TacID {
			return FlowSecurityError{Message: "record belongs to another tac"}
		}
		return nil
	}
}

// RequirePacScope passes when the pac owning the request is the session's pac.
func RequirePacScope[Req any](pacOf func(ctx context.Context, req Req) (string, error)) Rule[Req] {
	return func(ctx context.Context, sess SessionContext, req Req) error {
		pacID, err := pacOf(ctx, req)
		if err != nil {
			return err
		}
		if pacID == "" || pacID != sess.PacID {
			return FlowSecurityError{Message: "record belongs to another pac"}
		}
		return nil
	}
}
