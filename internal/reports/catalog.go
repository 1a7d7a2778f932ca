package reports

// Report names.
const (
	LandPlantList     = "land_plant_list"
	PacUserTacList    = "pac_user_tac_list"
	PacUserFlavorList = "pac_user_flavor_list"
	PacUserLandList   = "pac_user_land_list"
	TacFarmDashboard  = "tac_farm_dashboard"
	PlantUserDetails  = "plant_user_details"
	TacOrgAPIKeyList  = "tac_org_api_key_list"
	TacDynaFlowList   = "tac_dyna_flow_list"
)

func lookupList(name, table, description string) Definition {
	return Definition{
		Name:        name,
		Description: description,
		Query: `SELECT t.id AS ` + table + `_id, t.name, t.description, t.display_order, t.is_active, t.lookup_enum_name, t.created_at, t.updated_at
FROM ` + table + ` t
WHERE t.pac_id = :pac_id
  AND (:is_active = '' OR t.is_active = (:is_active = 'true'))`,
		Params: []Param{
			{Name: "pac_id", Required: true, Description: "owning pac"},
			{Name: "is_active", Default: "", Description: "filter by active flag (true|false)"},
		},
		OrderColumns: []string{table + "_id", "name", "display_order", "lookup_enum_name", "created_at"},
		DefaultOrder: "display_order",
		KeyColumn:    table + "_id",
		BoolColumns:  []string{"is_active"},
	}
}

// BuiltinDefinitions returns the farmcore reports.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			Name:        LandPlantList,
			Description: "Plants growing on a land with their flavor",
			Query: `SELECT p.id AS plant_id, p.some_int_val, p.some_big_int_val, p.some_bit_val, p.is_edit_allowed, p.is_delete_allowed,
       p.some_float_val, p.some_decimal_val, p.some_utc_date_time_val, p.some_date_val, p.some_money_val,
       p.some_n_var_char_val, p.some_var_char_val, p.some_text_val, p.some_phone_number, p.some_email_address,
       p.some_unique_identifier_val, p.flavor_id, f.name AS flavor_name, p.other_flavor, p.land_id, l.name AS land_name
FROM plant p
JOIN land l ON l.id = p.land_id
LEFT JOIN flavor f ON f.id = p.flavor_id
WHERE p.land_id = :land_id
  AND (:flavor_id = '' OR p.flavor_id = :flavor_id)`,
			Params: []Param{
				{Name: "land_id", Required: true, Description: "land whose plants are listed"},
				{Name: "flavor_id", Default: "", Description: "restrict to one flavor"},
			},
			OrderColumns: []string{"plant_id", "some_int_val", "some_big_int_val", "some_var_char_val", "some_money_val", "flavor_name", "some_utc_date_time_val"},
			DefaultOrder: "plant_id",
			KeyColumn:    "plant_id",
			BoolColumns:  []string{"some_bit_val", "is_edit_allowed", "is_delete_allowed"},
		},
		lookupList(PacUserTacList, "tac", "Tacs of a pac"),
		lookupList(PacUserFlavorList, "flavor", "Flavors of a pac"),
		lookupList(PacUserLandList, "land", "Lands of a pac"),
		{
			Name:        TacFarmDashboard,
			Description: "Plant counts and values per land of the tac's pac",
			Query: `SELECT l.id AS land_id, l.name AS land_name, l.display_order,
       COUNT(p.id) AS plant_count,
       COALESCE(SUM(p.some_money_val), 0) AS total_money_val,
       COALESCE(SUM(p.some_big_int_val), 0) AS total_big_int_val
FROM tac t
JOIN land l ON l.pac_id = t.pac_id
LEFT JOIN plant p ON p.land_id = l.id
WHERE t.id = :tac_id
GROUP BY l.id, l.name, l.display_order`,
			Params:       []Param{{Name: "tac_id", Required: true, Description: "tac whose pac is summarised"}},
			OrderColumns: []string{"land_id", "land_name", "display_order", "plant_count", "total_money_val"},
			DefaultOrder: "land_id",
			KeyColumn:    "land_id",
		},
		{
			Name:        PlantUserDetails,
			Description: "A single plant with its land and flavor",
			Query: `SELECT p.id AS plant_id, p.last_change_code, p.land_id, l.name AS land_name, l.pac_id,
       p.flavor_id, f.name AS flavor_name, f.lookup_enum_name AS flavor_enum, p.other_flavor,
       p.some_int_val, p.some_big_int_val, p.some_bit_val, p.is_edit_allowed, p.is_delete_allowed,
       p.some_float_val, p.some_decimal_val, p.some_utc_date_time_val, p.some_date_val, p.some_money_val,
       p.some_n_var_char_val, p.some_var_char_val, p.some_text_val, p.some_phone_number,
       p.some_email_address, p.some_unique_identifier_val, p.created_at, p.updated_at
FROM plant p
JOIN land l ON l.id = p.land_id
LEFT JOIN flavor f ON f.id = p.flavor_id
WHERE p.id = :plant_id`,
			Params:       []Param{{Name: "plant_id", Required: true}},
			OrderColumns: []string{"plant_id"},
			DefaultOrder: "plant_id",
			KeyColumn:    "plant_id",
			BoolColumns:  []string{"some_bit_val", "is_edit_allowed", "is_delete_allowed"},
		},
		{
			Name:        TacOrgAPIKeyList,
			Description: "API keys issued by a tac; key values are never listed",
			Query: `SELECT k.id AS org_api_key_id, k.name, k.customer_code, k.role_names, k.created_by,
       k.expires_at, k.is_active, k.is_temp_user_key, k.created_at
FROM org_api_key k
WHERE k.tac_id = :tac_id
  AND (:customer_code = '' OR k.customer_code = :customer_code)`,
			Params: []Param{
				{Name: "tac_id", Required: true},
				{Name: "customer_code", Default: ""},
			},
			OrderColumns: []string{"org_api_key_id", "name", "customer_code", "expires_at", "created_at"},
			DefaultOrder: "created_at",
			KeyColumn:    "org_api_key_id",
			BoolColumns:  []string{"is_active", "is_temp_user_key"},
		},
		{
			Name:        TacDynaFlowList,
			Description: "Dyna flows requested by a tac with task progress",
			Query: `SELECT d.id AS dyna_flow_id, d.flow_type, d.description, d.priority, d.status, d.is_cancel_requested,
       d.requested_at, d.started_at, d.completed_at, d.is_successful, d.result_value,
       (SELECT COUNT(*) FROM dyna_flow_task k WHERE k.dyna_flow_id = d.id) AS task_count,
       (SELECT COUNT(*) FROM dyna_flow_task k WHERE k.dyna_flow_id = d.id AND k.status = 'completed') AS completed_task_count
FROM dyna_flow d
WHERE d.tac_id = :tac_id
  AND (:status = '' OR d.status = :status)`,
			Params: []Param{
				{Name: "tac_id", Required: true},
				{Name: "status", Default: "", Description: "requested|started|completed|failed|canceled"},
			},
			OrderColumns: []string{"dyna_flow_id", "requested_at", "priority", "status", "flow_type"},
			DefaultOrder: "requested_at",
			KeyColumn:    "dyna_flow_id",
			BoolColumns:  []string{"is_cancel_requested", "is_successful"},
		},
	}
}
