package core

import (
	"context"
	"fmt"
	"strings"

	"farmcore/pkg/domain"
)

const uniqueLookupRuleName = "unique_lookup_enum_name"

// UniqueLookupEnumNameRule blocks two lookup records of the same kind and
// parent from sharing a LookupEnumName. Comparison ignores case; empty names
// are not checked.
func UniqueLookupEnumNameRule() domain.Rule {
	return uniqueLookupRule{}
}

type uniqueLookupRule struct{}

func (uniqueLookupRule) Name() string { return uniqueLookupRuleName }

type lookupKey struct {
	entity EntityType
	parent string
	name   string
}

func (uniqueLookupRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	touched := make(map[EntityType]bool)
	for _, c := range changed(changes) {
		touched[c.Entity] = true
	}
	if len(touched) == 0 {
		return domain.Result{}, nil
	}

	var res domain.Result
	seen := make(map[lookupKey]string)
	check := func(entity EntityType, id, parent string, l domain.Lookup) {
		name := strings.ToLower(strings.TrimSpace(l.LookupEnumName))
		if name == "" {
			return
		}
		key := lookupKey{entity: entity, parent: parent, name: name}
		if other, dup := seen[key]; dup {
			res.Violations = append(res.Violations, block(uniqueLookupRuleName, entity, id,
				fmt.Sprintf("%s lookup enum name %q already used by %s", entity, l.LookupEnumName, other)))
			return
		}
		seen[key] = id
	}
	if touched[EntityPac] {
		for _, p := range view.ListPacs() {
			check(EntityPac, p.ID, "", p.Lookup)
		}
	}
	if touched[EntityTac] {
		for _, t := range view.ListTacs() {
			check(EntityTac, t.ID, t.PacID, t.Lookup)
		}
	}
	if touched[EntityFlavor] {
		for _, f := range view.ListFlavors() {
			check(EntityFlavor, f.ID, f.PacID, f.Lookup)
		}
	}
	if touched[EntityLand] {
		for _, l := range view.ListLands() {
			check(EntityLand, l.ID, l.PacID, l.Lookup)
		}
	}
	return res, nil
}
