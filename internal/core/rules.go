package core

import "farmcore/pkg/domain"

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ReferenceIntegrityRule())
	engine.Register(UniqueLookupEnumNameRule())
	engine.Register(APIKeyUniqueValueRule())
	engine.Register(APIKeyExpiryRule())
	engine.Register(DynaFlowTaskSequenceRule())
	return engine
}

// changed yields the post-change record for every create or update.
func changed(changes []Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Action == ActionDelete || c.After == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func block(rule string, entity EntityType, id, msg string) Violation {
	return Violation{Rule: rule, Severity: SeverityBlock, Message: msg, Entity: entity, EntityID: id}
}
