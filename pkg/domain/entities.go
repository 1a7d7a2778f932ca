// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by farmcore.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence tables.
const (
	// EntityPac identifies the top-level pac record.
	EntityPac EntityType = "pac"
	// EntityTac identifies a tac (tenant) record owned by a pac.
	EntityTac EntityType = "tac"
	// EntityFlavor identifies a flavor lookup record owned by a pac.
	EntityFlavor EntityType = "flavor"
	// EntityLand identifies a land record owned by a pac.
	EntityLand EntityType = "land"
	// EntityPlant identifies a plant record growing on a land.
	EntityPlant EntityType = "plant"
	// EntityOrgAPIKey identifies an organisation API key issued by a tac.
	EntityOrgAPIKey EntityType = "org_api_key"
	// EntityDynaFlow identifies a requested asynchronous workflow execution.
	EntityDynaFlow EntityType = "dyna_flow"
	// EntityDynaFlowTask identifies a single task execution within a dyna flow.
	EntityDynaFlowTask EntityType = "dyna_flow_task"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// DynaFlowStatus enumerates the lifecycle of a dyna flow and its tasks.
type DynaFlowStatus string

// Canonical dyna flow statuses.
const (
	DynaFlowStatusRequested DynaFlowStatus = "requested"
	DynaFlowStatusStarted   DynaFlowStatus = "started"
	DynaFlowStatusCompleted DynaFlowStatus = "completed"
	DynaFlowStatusFailed    DynaFlowStatus = "failed"
	DynaFlowStatusCanceled  DynaFlowStatus = "canceled"
)

// Terminal reports whether no further processing happens in this status.
func (s DynaFlowStatus) Terminal() bool {
	switch s {
	case DynaFlowStatusCompleted, DynaFlowStatusFailed, DynaFlowStatusCanceled:
		return true
	default:
		return false
	}
}

// Base contains common fields for all domain records.
type Base struct {
	ID               string    `json:"id"`
	LastChangeCode   string    `json:"last_change_code"`
	InsertUserID     string    `json:"insert_user_id,omitempty"`
	LastUpdateUserID string    `json:"last_update_user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Lookup carries the shared columns of the lookup-style entities (pac, tac,
// flavor, land).
type Lookup struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	DisplayOrder   int    `json:"display_order"`
	IsActive       bool   `json:"is_active"`
	LookupEnumName string `json:"lookup_enum_name"`
}

// Pac is the root of the ownership tree.
type Pac struct {
	Base
	Lookup
}

// Tac is a tenant within a pac. API keys and dyna flows belong to a tac.
type Tac struct {
	Base
	Lookup
	PacID string `json:"pac_id"`
}

// Flavor is a pac-scoped lookup referenced by plants.
type Flavor struct {
	Base
	Lookup
	PacID string `json:"pac_id"`
}

// Land is a pac-scoped plot that plants grow on.
type Land struct {
	Base
	Lookup
	PacID string `json:"pac_id"`
}

// Plant is the main business record; its fields cover every supported column type.
type Plant struct {
	Base
	LandID                  string    `json:"land_id"`
	FlavorID                string    `json:"flavor_id"`
	OtherFlavor             string    `json:"other_flavor"`
	SomeIntVal              int32     `json:"some_int_val"`
	SomeBigIntVal           int64     `json:"some_big_int_val"`
	SomeBitVal              bool      `json:"some_bit_val"`
	IsEditAllowed           bool      `json:"is_edit_allowed"`
	IsDeleteAllowed         bool      `json:"is_delete_allowed"`
	SomeFloatVal            float64   `json:"some_float_val"`
	SomeDecimalVal          float64   `json:"some_decimal_val"`
	SomeUTCDateTimeVal      time.Time `json:"some_utc_date_time_val"`
	SomeDateVal             time.Time `json:"some_date_val"`
	SomeMoneyVal            float64   `json:"some_money_val"`
	SomeNVarCharVal         string    `json:"some_n_var_char_val"`
	SomeVarCharVal          string    `json:"some_var_char_val"`
	SomeTextVal             string    `json:"some_text_val"`
	SomePhoneNumber         string    `json:"some_phone_number"`
	SomeEmailAddress        string    `json:"some_email_address"`
	SomeUniqueIdentifierVal string    `json:"some_unique_identifier_val"`
}

// OrgAPIKey authenticates API callers on behalf of a customer within a tac.
type OrgAPIKey struct {
	Base
	TacID         string    `json:"tac_id"`
	Name          string    `json:"name"`
	APIKeyValue   string    `json:"api_key_value"`
	CustomerCode  string    `json:"customer_code"`
	RoleNames     []string  `json:"role_names"`
	CreatedBy     string    `json:"created_by"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsActive      bool      `json:"is_active"`
	IsTempUserKey bool      `json:"is_temp_user_key"`
}

// Expired reports whether the key is past its expiry at the supplied instant.
func (k OrgAPIKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && !now.Before(k.ExpiresAt)
}

// DynaFlow records a requested asynchronous workflow execution.
type DynaFlow struct {
	Base
	TacID             string         `json:"tac_id"`
	FlowType          string         `json:"flow_type"`
	Description       string         `json:"description"`
	Param             string         `json:"param"`
	Priority          int            `json:"priority"`
	Status            DynaFlowStatus `json:"status"`
	IsCancelRequested bool           `json:"is_cancel_requested"`
	RequestedAt       time.Time      `json:"requested_at"`
	StartedAt         *time.Time     `json:"started_at,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	IsSuccessful      bool           `json:"is_successful"`
	ResultValue       string         `json:"result_value"`
	ProcessorID       string         `json:"processor_id"`
}

// DynaFlowTask records one task execution inside a dyna flow.
type DynaFlowTask struct {
	Base
	DynaFlowID   string         `json:"dyna_flow_id"`
	TaskType     string         `json:"task_type"`
	Sequence     int            `json:"sequence"`
	Status       DynaFlowStatus `json:"status"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	IsSuccessful bool           `json:"is_successful"`
	ResultValue  string         `json:"result_value"`
}

// Change describes a mutation applied to an entity within a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	// ActionDelete indicates an entity was removed.
	ActionDelete Action = "delete"
)

// Violation reports a rule failure.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rules: %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}

// ErrNotFound is returned when a referenced record does not exist.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ErrStaleRecord is returned when an update carries a change code that no
// longer matches the stored record.
type ErrStaleRecord struct {
	Entity   EntityType
	ID       string
	Expected string
	Actual   string
}

func (e ErrStaleRecord) Error() string {
	return fmt.Sprintf("%s %q was modified concurrently (change code %s, current %s)", e.Entity, e.ID, e.Expected, e.Actual)
}

// ErrInUse is returned when deleting a record that children still reference.
type ErrInUse struct {
	Entity      EntityType
	ID          string
	Dependent   EntityType
	DependentID string
}

func (e ErrInUse) Error() string {
	return fmt.Sprintf("%s %q still referenced by %s %q", e.Entity, e.ID, e.Dependent, e.DependentID)
}

// BaseFields exposes the embedded base record so that stores can stamp
// identity and audit columns generically.
func (b *Base) BaseFields() *Base { return b }
