package core

import (
	"context"
	"fmt"

	"farmcore/pkg/domain"
)

const referenceIntegrityRuleName = "reference_integrity"

// ReferenceIntegrityRule blocks creates and updates whose parent records do
// not exist in the transaction snapshot, and plants whose flavor belongs to a
// different pac than their land.
func ReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return referenceIntegrityRuleName }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	missing := func(entity EntityType, id string, parent EntityType, parentID string) {
		res.Violations = append(res.Violations, block(referenceIntegrityRuleName, entity, id,
			fmt.Sprintf("%s %s references missing %s %q", entity, id, parent, parentID)))
	}
	pacExists := func(id string) bool {
		_, ok := view.FindPac(id)
		return ok
	}

	for _, c := range changed(changes) {
		switch rec := c.After.(type) {
		case domain.Tac:
			if !pacExists(rec.PacID) {
				missing(EntityTac, rec.ID, EntityPac, rec.PacID)
			}
		case domain.Flavor:
			if !pacExists(rec.PacID) {
				missing(EntityFlavor, rec.ID, EntityPac, rec.PacID)
			}
		case domain.Land:
			if !pacExists(rec.PacID) {
				missing(EntityLand, rec.ID, EntityPac, rec.PacID)
			}
		case domain.Plant:
			land, landOK := view.FindLand(rec.LandID)
			if !landOK {
				missing(EntityPlant, rec.ID, EntityLand, rec.LandID)
			}
			flavor, flavorOK := view.FindFlavor(rec.FlavorID)
			if !flavorOK {
				missing(EntityPlant, rec.ID, EntityFlavor, rec.FlavorID)
			}
			if landOK && flavorOK && land.PacID != flavor.PacID {
				res.Violations = append(res.Violations, block(referenceIntegrityRuleName, EntityPlant, rec.ID,
					fmt.Sprintf("plant %s uses flavor %q of pac %q on land of pac %q", rec.ID, flavor.ID, flavor.PacID, land.PacID)))
			}
		case domain.OrgAPIKey:
			if _, ok := view.FindTac(rec.TacID); !ok {
				missing(EntityOrgAPIKey, rec.ID, EntityTac, rec.TacID)
			}
		case domain.DynaFlow:
			if rec.TacID == "" {
				continue
			}
			if _, ok := view.FindTac(rec.TacID); !ok {
				missing(EntityDynaFlow, rec.ID, EntityTac, rec.TacID)
			}
		case domain.DynaFlowTask:
			if _, ok := view.FindDynaFlow(rec.DynaFlowID); !ok {
				missing(EntityDynaFlowTask, rec.ID, EntityDynaFlow, rec.DynaFlowID)
			}
		}
	}
	return res, nil
}
