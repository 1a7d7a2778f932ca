package core

import "farmcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Lookup             = domain.Lookup
	Pac                = domain.Pac
	Tac                = domain.Tac
	Flavor             = domain.Flavor
	Land               = domain.Land
	Plant              = domain.Plant
	OrgAPIKey          = domain.OrgAPIKey
	DynaFlow           = domain.DynaFlow
	DynaFlowTask       = domain.DynaFlowTask
	DynaFlowStatus     = domain.DynaFlowStatus
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityPac          = domain.EntityPac
	EntityTac          = domain.EntityTac
	EntityFlavor       = domain.EntityFlavor
	EntityLand         = domain.EntityLand
	EntityPlant        = domain.EntityPlant
	EntityOrgAPIKey    = domain.EntityOrgAPIKey
	EntityDynaFlow     = domain.EntityDynaFlow
	EntityDynaFlowTask = domain.EntityDynaFlowTask
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
