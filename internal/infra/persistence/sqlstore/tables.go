package sqlstore

import (
	"encoding/json"
	"fmt"

	"farmcore/internal/entitymodel/sqlbundle"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

var baseColumns = []string{"id", "last_change_code", "insert_user_id", "last_update_user_id", "created_at", "updated_at"}

var lookupColumns = []string{"name", "description", "display_order", "is_active", "lookup_enum_name"}

// table describes how one entity maps onto its normalised table.
type table struct {
	name    string
	columns []string
	// values returns bind arguments in column order for an entity value.
	values func(d sqlbundle.Dialect, rec any) ([]any, error)
	// load decodes one scanned row into the snapshot.
	load func(row *rowReader, snap *memory.Snapshot) error
}

func columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func baseValues(d sqlbundle.Dialect, b domain.Base) []any {
	return []any{b.ID, b.LastChangeCode, b.InsertUserID, b.LastUpdateUserID, d.EncodeTime(b.CreatedAt), d.EncodeTime(b.UpdatedAt)}
}

func lookupValues(d sqlbundle.Dialect, l domain.Lookup) []any {
	return []any{l.Name, l.Description, int64(l.DisplayOrder), d.EncodeBool(l.IsActive), l.LookupEnumName}
}

func readBase(r *rowReader) domain.Base {
	return domain.Base{
		ID:               r.str("id"),
		LastChangeCode:   r.str("last_change_code"),
		InsertUserID:     r.str("insert_user_id"),
		LastUpdateUserID: r.str("last_update_user_id"),
		CreatedAt:        r.time("created_at"),
		UpdatedAt:        r.time("updated_at"),
	}
}

func readLookup(r *rowReader) domain.Lookup {
	return domain.Lookup{
		Name:           r.str("name"),
		Description:    r.str("description"),
		DisplayOrder:   int(r.int("display_order")),
		IsActive:       r.bool("is_active"),
		LookupEnumName: r.str("lookup_enum_name"),
	}
}

func wrongType(table string, rec any) error {
	return fmt.Errorf("%s: unexpected record type %T", table, rec)
}

var pacTable = table{
	name:    "pac",
	columns: columns(baseColumns, lookupColumns),
	values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
		p, ok := rec.(domain.Pac)
		if !ok {
			return nil, wrongType("pac", rec)
		}
		return append(baseValues(d, p.Base), lookupValues(d, p.Lookup)...), nil
	},
	load: func(r *rowReader, snap *memory.Snapshot) error {
		snap.Pacs = append(snap.Pacs, domain.Pac{Base: readBase(r), Lookup: readLookup(r)})
		return r.err
	},
}

// pacOwned builds the table mapping shared by tac, flavor and land.
func pacOwned[T any](name string, split func(T) (domain.Base, domain.Lookup, string), build func(domain.Base, domain.Lookup, string) T, add func(*memory.Snapshot, T)) table {
	return table{
		name:    name,
		columns: columns(baseColumns, lookupColumns, []string{"pac_id"}),
		values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
			v, ok := rec.(T)
			if !ok {
				return nil, wrongType(name, rec)
			}
			base, lookup, pacID := split(v)
			out := append(baseValues(d, base), lookupValues(d, lookup)...)
			return append(out, pacID), nil
		},
		load: func(r *rowReader, snap *memory.Snapshot) error {
			add(snap, build(readBase(r), readLookup(r), r.str("pac_id")))
			return r.err
		},
	}
}

var tacTable = pacOwned("tac",
	func(t domain.Tac) (domain.Base, domain.Lookup, string) { return t.Base, t.Lookup, t.PacID },
	func(b domain.Base, l domain.Lookup, pacID string) domain.Tac {
		return domain.Tac{Base: b, Lookup: l, PacID: pacID}
	},
	func(s *memory.Snapshot, t domain.Tac) { s.Tacs = append(s.Tacs, t) },
)

var flavorTable = pacOwned("flavor",
	func(f domain.Flavor) (domain.Base, domain.Lookup, string) { return f.Base, f.Lookup, f.PacID },
	func(b domain.Base, l domain.Lookup, pacID string) domain.Flavor {
		return domain.Flavor{Base: b, Lookup: l, PacID: pacID}
	},
	func(s *memory.Snapshot, f domain.Flavor) { s.Flavors = append(s.Flavors, f) },
)

var landTable = pacOwned("land",
	func(l domain.Land) (domain.Base, domain.Lookup, string) { return l.Base, l.Lookup, l.PacID },
	func(b domain.Base, l domain.Lookup, pacID string) domain.Land {
		return domain.Land{Base: b, Lookup: l, PacID: pacID}
	},
	func(s *memory.Snapshot, l domain.Land) { s.Lands = append(s.Lands, l) },
)

var plantTable = table{
	name: "plant",
	columns: columns(baseColumns, []string{
		"land_id", "flavor_id", "other_flavor", "some_int_val", "some_big_int_val", "some_bit_val",
		"is_edit_allowed", "is_delete_allowed", "some_float_val", "some_decimal_val",
		"some_utc_date_time_val", "some_date_val", "some_money_val", "some_n_var_char_val",
		"some_var_char_val", "some_text_val", "some_phone_number", "some_email_address",
		"some_unique_identifier_val",
	}),
	values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
		p, ok := rec.(domain.Plant)
		if !ok {
			return nil, wrongType("plant", rec)
		}
		return append(baseValues(d, p.Base),
			p.LandID, p.FlavorID, p.OtherFlavor, int64(p.SomeIntVal), p.SomeBigIntVal, d.EncodeBool(p.SomeBitVal),
			d.EncodeBool(p.IsEditAllowed), d.EncodeBool(p.IsDeleteAllowed), p.SomeFloatVal, p.SomeDecimalVal,
			d.EncodeTime(p.SomeUTCDateTimeVal), d.EncodeTime(p.SomeDateVal), p.SomeMoneyVal, p.SomeNVarCharVal,
			p.SomeVarCharVal, p.SomeTextVal, p.SomePhoneNumber, p.SomeEmailAddress,
			p.SomeUniqueIdentifierVal,
		), nil
	},
	load: func(r *rowReader, snap *memory.Snapshot) error {
		snap.Plants = append(snap.Plants, domain.Plant{
			Base:                    readBase(r),
			LandID:                  r.str("land_id"),
			FlavorID:                r.str("flavor_id"),
			OtherFlavor:             r.str("other_flavor"),
			SomeIntVal:              int32(r.int("some_int_val")),
			SomeBigIntVal:           r.int("some_big_int_val"),
			SomeBitVal:              r.bool("some_bit_val"),
			IsEditAllowed:           r.bool("is_edit_allowed"),
			IsDeleteAllowed:         r.bool("is_delete_allowed"),
			SomeFloatVal:            r.float("some_float_val"),
			SomeDecimalVal:          r.float("some_decimal_val"),
			SomeUTCDateTimeVal:      r.time("some_utc_date_time_val"),
			SomeDateVal:             r.time("some_date_val"),
			SomeMoneyVal:            r.float("some_money_val"),
			SomeNVarCharVal:         r.str("some_n_var_char_val"),
			SomeVarCharVal:          r.str("some_var_char_val"),
			SomeTextVal:             r.str("some_text_val"),
			SomePhoneNumber:         r.str("some_phone_number"),
			SomeEmailAddress:        r.str("some_email_address"),
			SomeUniqueIdentifierVal: r.str("some_unique_identifier_val"),
		})
		return r.err
	},
}

var orgAPIKeyTable = table{
	name: "org_api_key",
	columns: columns(baseColumns, []string{
		"tac_id", "name", "api_key_value", "customer_code", "role_names", "created_by",
		"expires_at", "is_active", "is_temp_user_key",
	}),
	values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
		k, ok := rec.(domain.OrgAPIKey)
		if !ok {
			return nil, wrongType("org_api_key", rec)
		}
		roles := k.RoleNames
		if roles == nil {
			roles = []string{}
		}
		encoded, err := json.Marshal(roles)
		if err != nil {
			return nil, fmt.Errorf("encode role names: %w", err)
		}
		return append(baseValues(d, k.Base),
			k.TacID, k.Name, k.APIKeyValue, k.CustomerCode, string(encoded), k.CreatedBy,
			d.EncodeTime(k.ExpiresAt), d.EncodeBool(k.IsActive), d.EncodeBool(k.IsTempUserKey),
		), nil
	},
	load: func(r *rowReader, snap *memory.Snapshot) error {
		key := domain.OrgAPIKey{
			Base:          readBase(r),
			TacID:         r.str("tac_id"),
			Name:          r.str("name"),
			APIKeyValue:   r.str("api_key_value"),
			CustomerCode:  r.str("customer_code"),
			CreatedBy:     r.str("created_by"),
			ExpiresAt:     r.time("expires_at"),
			IsActive:      r.bool("is_active"),
			IsTempUserKey: r.bool("is_temp_user_key"),
		}
		if raw := r.str("role_names"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &key.RoleNames); err != nil {
				return fmt.Errorf("decode role names for key %s: %w", key.ID, err)
			}
		}
		snap.OrgAPIKeys = append(snap.OrgAPIKeys, key)
		return r.err
	},
}

var dynaFlowTable = table{
	name: "dyna_flow",
	columns: columns(baseColumns, []string{
		"tac_id", "flow_type", "description", "param", "priority", "status", "is_cancel_requested",
		"requested_at", "started_at", "completed_at", "is_successful", "result_value", "processor_id",
	}),
	values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
		f, ok := rec.(domain.DynaFlow)
		if !ok {
			return nil, wrongType("dyna_flow", rec)
		}
		return append(baseValues(d, f.Base),
			f.TacID, f.FlowType, f.Description, f.Param, int64(f.Priority), string(f.Status), d.EncodeBool(f.IsCancelRequested),
			d.EncodeTime(f.RequestedAt), d.EncodeTimePtr(f.StartedAt), d.EncodeTimePtr(f.CompletedAt),
			d.EncodeBool(f.IsSuccessful), f.ResultValue, f.ProcessorID,
		), nil
	},
	load: func(r *rowReader, snap *memory.Snapshot) error {
		snap.DynaFlows = append(snap.DynaFlows, domain.DynaFlow{
			Base:              readBase(r),
			TacID:             r.str("tac_id"),
			FlowType:          r.str("flow_type"),
			Description:       r.str("description"),
			Param:             r.str("param"),
			Priority:          int(r.int("priority")),
			Status:            domain.DynaFlowStatus(r.str("status")),
			IsCancelRequested: r.bool("is_cancel_requested"),
			RequestedAt:       r.time("requested_at"),
			StartedAt:         r.timePtr("started_at"),
			CompletedAt:       r.timePtr("completed_at"),
			IsSuccessful:      r.bool("is_successful"),
			ResultValue:       r.str("result_value"),
			ProcessorID:       r.str("processor_id"),
		})
		return r.err
	},
}

var dynaFlowTaskTable = table{
	name: "dyna_flow_task",
	columns: columns(baseColumns, []string{
		"dyna_flow_id", "task_type", "sequence", "status", "started_at", "completed_at", "is_successful", "result_value",
	}),
	values: func(d sqlbundle.Dialect, rec any) ([]any, error) {
		t, ok := rec.(domain.DynaFlowTask)
		if !ok {
			return nil, wrongType("dyna_flow_task", rec)
		}
		return append(baseValues(d, t.Base),
			t.DynaFlowID, t.TaskType, int64(t.Sequence), string(t.Status),
			d.EncodeTimePtr(t.StartedAt), d.EncodeTimePtr(t.CompletedAt), d.EncodeBool(t.IsSuccessful), t.ResultValue,
		), nil
	},
	load: func(r *rowReader, snap *memory.Snapshot) error {
		snap.DynaFlowTasks = append(snap.DynaFlowTasks, domain.DynaFlowTask{
			Base:         readBase(r),
			DynaFlowID:   r.str("dyna_flow_id"),
			TaskType:     r.str("task_type"),
			Sequence:     int(r.int("sequence")),
			Status:       domain.DynaFlowStatus(r.str("status")),
			StartedAt:    r.timePtr("started_at"),
			CompletedAt:  r.timePtr("completed_at"),
			IsSuccessful: r.bool("is_successful"),
			ResultValue:  r.str("result_value"),
		})
		return r.err
	},
}

// tables lists every mapped table, parents before children.
var tables = []table{pacTable, tacTable, flavorTable, landTable, plantTable, orgAPIKeyTable, dynaFlowTable, dynaFlowTaskTable}

var tablesByEntity = map[domain.EntityType]table{
	domain.EntityPac:          pacTable,
	domain.EntityTac:          tacTable,
	domain.EntityFlavor:       flavorTable,
	domain.EntityLand:         landTable,
	domain.EntityPlant:        plantTable,
	domain.EntityOrgAPIKey:    orgAPIKeyTable,
	domain.EntityDynaFlow:     dynaFlowTable,
	domain.EntityDynaFlowTask: dynaFlowTaskTable,
}
