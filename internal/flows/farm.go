package flows

import (
	"context"
	"errors"
	"time"

	"farmcore/internal/business"
	"farmcore/internal/core"
	"farmcore/internal/dynaflow"
	"farmcore/pkg/domain"
)

// Flow names.
const (
	PacAddTacFlow          = "pac_add_tac"
	PacAddFlavorFlow       = "pac_add_flavor"
	PacAddLandFlow         = "pac_add_land"
	LandAddPlantFlow       = "land_add_plant"
	PlantUserSaveFlow      = "plant_user_save"
	PlantUserDeleteFlow    = "plant_user_delete"
	TacAddOrgAPIKeyFlow    = "tac_add_org_api_key"
	TacRequestDynaFlowFlow = "tac_request_dyna_flow"
	DynaFlowCancelFlow     = "dyna_flow_cancel"
)

// Catalog builds the flows over one service.
type Catalog struct {
	svc  *core.Service
	dyna *dynaflow.Dispatcher
}

// NewCatalog returns the flow catalog. dispatcher may be nil when dyna flow
// endpoints are not served.
func NewCatalog(svc *core.Service, dispatcher *dynaflow.Dispatcher) *Catalog {
	return &Catalog{svc: svc, dyna: dispatcher}
}

// LookupRequest adds a lookup record below a pac.
type LookupRequest struct {
	PacID          string `json:"pac_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DisplayOrder   int    `json:"display_order"`
	IsActive       bool   `json:"is_active"`
	LookupEnumName string `json:"lookup_enum_name"`
}

// PlantFields are the editable plant properties.
type PlantFields struct {
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

func (p PlantFields) apply(b *business.PlantBusObj) {
	b.SetFlavorID(p.FlavorID).
		SetOtherFlavor(p.OtherFlavor).
		SetSomeIntVal(p.SomeIntVal).
		SetSomeBigIntVal(p.SomeBigIntVal).
		SetSomeBitVal(p.SomeBitVal).
		SetIsEditAllowed(p.IsEditAllowed).
		SetIsDeleteAllowed(p.IsDeleteAllowed).
		SetSomeFloatVal(p.SomeFloatVal).
		SetSomeDecimalVal(p.SomeDecimalVal).
		SetSomeUTCDateTimeVal(p.SomeUTCDateTimeVal.UTC()).
		SetSomeDateVal(p.SomeDateVal.UTC()).
		SetSomeMoneyVal(p.SomeMoneyVal).
		SetSomeNVarCharVal(p.SomeNVarCharVal).
		SetSomeVarCharVal(p.SomeVarCharVal).
		SetSomeTextVal(p.SomeTextVal).
		SetSomePhoneNumber(p.SomePhoneNumber).
		SetSomeEmailAddress(p.SomeEmailAddress).
		SetSomeUniqueIdentifierVal(p.SomeUniqueIdentifierVal)
}

func plantRules[Req any](fields func(Req) PlantFields) []Rule[Req] {
	str := func(pick func(PlantFields) string) func(Req) string {
		return func(r Req) string { return pick(fields(r)) }
	}
	return []Rule[Req]{
		RequiredID("flavor_id", str(func(p PlantFields) string { return p.FlavorID })),
		MaxLength("other_flavor", 50, str(func(p PlantFields) string { return p.OtherFlavor })),
		MaxLength("some_n_var_char_val", 100, str(func(p PlantFields) string { return p.SomeNVarCharVal })),
		MaxLength("some_var_char_val", 100, str(func(p PlantFields) string { return p.SomeVarCharVal })),
		MaxLength("some_email_address", 254, str(func(p PlantFields) string { return p.SomeEmailAddress })),
		EmailFormat("some_email_address", str(func(p PlantFields) string { return p.SomeEmailAddress })),
		PhoneFormat("some_phone_number", str(func(p PlantFields) string { return p.SomePhoneNumber })),
		OptionalID("some_unique_identifier_val", str(func(p PlantFields) string { return p.SomeUniqueIdentifierVal })),
	}
}

func lookupRules() []Rule[LookupRequest] {
	return []Rule[LookupRequest]{
		RequiredID("pac_id", func(r LookupRequest) string { return r.PacID }),
		Required("name", func(r LookupRequest) string { return r.Name }),
		MaxLength("name", 100, func(r LookupRequest) string { return r.Name }),
		MaxLength("description", 255, func(r LookupRequest) string { return r.Description }),
		MaxLength("lookup_enum_name", 50, func(r LookupRequest) string { return r.LookupEnumName }),
	}
}

func lookupSecurity() []Rule[LookupRequest] {
	return []Rule[LookupRequest]{
		RequireAuthenticated[LookupRequest](),
		RequireRole[LookupRequest](RoleAdmin),
		RequirePacScope(func(_ context.Context, r LookupRequest) (string, error) { return r.PacID, nil }),
	}
}

// PacAddTac adds a tac to a pac.
func (c *Catalog) PacAddTac() Flow[LookupRequest, domain.Tac] {
	return Flow[LookupRequest, domain.Tac]{
		Name:       PacAddTacFlow,
		Validation: lookupRules(),
		Security:   lookupSecurity(),
		Logger:     c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req LookupRequest) (domain.Tac, error) {
			pac, err := business.LoadPac(ctx, c.svc, req.PacID)
			if err != nil {
				return domain.Tac{}, err
			}
			tac := pac.BuildTac().
				SetName(req.Name).
				SetDescription(req.Description).
				SetDisplayOrder(req.DisplayOrder).
				SetIsActive(req.IsActive).
				SetLookupEnumName(req.LookupEnumName)
			if err := tac.Save(ctx); err != nil {
				return domain.Tac{}, err
			}
			return tac.Record(), nil
		},
	}
}

// PacAddFlavor adds a flavor to a pac.
func (c *Catalog) PacAddFlavor() Flow[LookupRequest, domain.Flavor] {
	return Flow[LookupRequest, domain.Flavor]{
		Name:       PacAddFlavorFlow,
		Validation: lookupRules(),
		Security:   lookupSecurity(),
		Logger:     c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req LookupRequest) (domain.Flavor, error) {
			pac, err := business.LoadPac(ctx, c.svc, req.PacID)
			if err != nil {
				return domain.Flavor{}, err
			}
			flavor := pac.BuildFlavor().
				SetName(req.Name).
				SetDescription(req.Description).
				SetDisplayOrder(req.DisplayOrder).
				SetIsActive(req.IsActive).
				SetLookupEnumName(req.LookupEnumName)
			if err := flavor.Save(ctx); err != nil {
				return domain.Flavor{}, err
			}
			return flavor.Record(), nil
		},
	}
}

// PacAddLand adds a land to a pac.
func (c *Catalog) PacAddLand() Flow[LookupRequest, domain.Land] {
	return Flow[LookupRequest, domain.Land]{
		Name:       PacAddLandFlow,
		Validation: lookupRules(),
		Security:   lookupSecurity(),
		Logger:     c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req LookupRequest) (domain.Land, error) {
			pac, err := business.LoadPac(ctx, c.svc, req.PacID)
			if err != nil {
				return domain.Land{}, err
			}
			land := pac.BuildLand().
				SetName(req.Name).
				SetDescription(req.Description).
				SetDisplayOrder(req.DisplayOrder).
				SetIsActive(req.IsActive).
				SetLookupEnumName(req.LookupEnumName)
			if err := land.Save(ctx); err != nil {
				return domain.Land{}, err
			}
			return land.Record(), nil
		},
	}
}

// LandAddPlantRequest plants on a land.
type LandAddPlantRequest struct {
	LandID string `json:"land_id"`
	PlantFields
}

// LandAddPlant adds a plant to a land.
func (c *Catalog) LandAddPlant() Flow[LandAddPlantRequest, domain.Plant] {
	fields := func(r LandAddPlantRequest) PlantFields { return r.PlantFields }
	return Flow[LandAddPlantRequest, domain.Plant]{
		Name: LandAddPlantFlow,
		Validation: append([]Rule[LandAddPlantRequest]{
			RequiredID("land_id", func(r LandAddPlantRequest) string { return r.LandID }),
		}, plantRules(fields)...),
		Security: []Rule[LandAddPlantRequest]{
			RequireAuthenticated[LandAddPlantRequest](),
			RequireRole[LandAddPlantRequest](RoleAdmin, RoleUser),
			RequirePacScope(func(ctx context.Context, r LandAddPlantRequest) (string, error) {
				return c.landPac(ctx, r.LandID)
			}),
			RequirePacScope(func(ctx context.Context, r LandAddPlantRequest) (string, error) {
				return c.flavorPac(ctx, r.FlavorID)
			}),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req LandAddPlantRequest) (domain.Plant, error) {
			land, err := business.LoadLand(ctx, c.svc, req.LandID)
			if err != nil {
				return domain.Plant{}, err
			}
			plant := land.BuildPlant()
			req.PlantFields.apply(plant)
			if err := plant.Save(ctx); err != nil {
				return domain.Plant{}, err
			}
			return plant.Record(), nil
		},
	}
}

// PlantUserSaveRequest edits a plant. LastChangeCode must match the stored
// record.
type PlantUserSaveRequest struct {
	PlantID        string `json:"plant_id"`
	LastChangeCode string `json:"last_change_code"`
	PlantFields
}

// PlantUserSave updates an existing plant.
func (c *Catalog) PlantUserSave() Flow[PlantUserSaveRequest, domain.Plant] {
	fields := func(r PlantUserSaveRequest) PlantFields { return r.PlantFields }
	return Flow[PlantUserSaveRequest, domain.Plant]{
		Name: PlantUserSaveFlow,
		Validation: append([]Rule[PlantUserSaveRequest]{
			RequiredID("plant_id", func(r PlantUserSaveRequest) string { return r.PlantID }),
			Required("last_change_code", func(r PlantUserSaveRequest) string { return r.LastChangeCode }),
		}, plantRules(fields)...),
		Security: []Rule[PlantUserSaveRequest]{
			RequireAuthenticated[PlantUserSaveRequest](),
			RequireRole[PlantUserSaveRequest](RoleAdmin, RoleUser),
			RequirePacScope(func(ctx context.Context, r PlantUserSaveRequest) (string, error) {
				return c.plantPac(ctx, r.PlantID)
			}),
			RequirePacScope(func(ctx context.Context, r PlantUserSaveRequest) (string, error) {
				return c.flavorPac(ctx, r.FlavorID)
			}),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req PlantUserSaveRequest) (domain.Plant, error) {
			plant, err := business.LoadPlant(ctx, c.svc, req.PlantID)
			if err != nil {
				return domain.Plant{}, err
			}
			if plant.LastChangeCode() != req.LastChangeCode {
				return domain.Plant{}, domain.ErrStaleRecord{
					Entity:   domain.EntityPlant,
					ID:       req.PlantID,
					Expected: req.LastChangeCode,
					Actual:   plant.LastChangeCode(),
				}
			}
			req.PlantFields.apply(plant)
			if err := plant.Save(ctx); err != nil {
				return domain.Plant{}, err
			}
			return plant.Record(), nil
		},
	}
}

// PlantDeleteRequest names the plant to remove.
type PlantDeleteRequest struct {
	PlantID string `json:"plant_id"`
}

// DeleteResponse confirms a removal.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// PlantUserDelete removes a plant.
func (c *Catalog) PlantUserDelete() Flow[PlantDeleteRequest, DeleteResponse] {
	return Flow[PlantDeleteRequest, DeleteResponse]{
		Name: PlantUserDeleteFlow,
		Validation: []Rule[PlantDeleteRequest]{
			RequiredID("plant_id", func(r PlantDeleteRequest) string { return r.PlantID }),
		},
		Security: []Rule[PlantDeleteRequest]{
			RequireAuthenticated[PlantDeleteRequest](),
			RequireRole[PlantDeleteRequest](RoleAdmin, RoleUser),
			RequirePacScope(func(ctx context.Context, r PlantDeleteRequest) (string, error) {
				return c.plantPac(ctx, r.PlantID)
			}),
		},
		Logger: c.svc.Logger(),
		Action: func(ctx context.Context, _ SessionContext, req PlantDeleteRequest) (DeleteResponse, error) {
			plant, err := business.LoadPlant(ctx, c.svc, req.PlantID)
			if err != nil {
				return DeleteResponse{}, err
			}
			if err := plant.Delete(ctx); err != nil {
				return DeleteResponse{}, err
			}
			return DeleteResponse{ID: req.PlantID, Deleted: true}, nil
		},
	}
}

func (c *Catalog) landPac(ctx context.Context, landID string) (string, error) {
	land, err := c.svc.GetLand(ctx, landID)
	if err != nil {
		return "", err
	}
	return land.PacID, nil
}

// flavorPac answers "" for a missing flavor so that unknown and foreign
// flavors fail the scope check alike.
func (c *Catalog) flavorPac(ctx context.Context, flavorID string) (string, error) {
	flavor, err := c.svc.GetFlavor(ctx, flavorID)
	if errors.As(err, new(domain.ErrNotFound)) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return flavor.PacID, nil
}

func (c *Catalog) plantPac(ctx context.Context, plantID string) (string, error) {
	plant, err := c.svc.GetPlant(ctx, plantID)
	if err != nil {
		return "", err
	}
	return c.landPac(ctx, plant.LandID)
}
