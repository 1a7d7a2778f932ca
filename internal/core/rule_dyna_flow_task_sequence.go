package core

import (
	"context"
	"fmt"

	"farmcore/pkg/domain"
)

const dynaFlowTaskSequenceRuleName = "dyna_flow_task_sequence"

// DynaFlowTaskSequenceRule requires positive task sequences that are unique
// within their dyna flow.
func DynaFlowTaskSequenceRule() domain.Rule {
	return dynaFlowTaskSequenceRule{}
}

type dynaFlowTaskSequenceRule struct{}

func (dynaFlowTaskSequenceRule) Name() string { return dynaFlowTaskSequenceRuleName }

func (dynaFlowTaskSequenceRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	flows := make(map[string]bool)
	for _, c := range changed(changes) {
		if task, ok := c.After.(domain.DynaFlowTask); ok {
			flows[task.DynaFlowID] = true
		}
	}
	if len(flows) == 0 {
		return domain.Result{}, nil
	}
	var res domain.Result
	seen := make(map[string]map[int]string)
	for _, task := range view.ListDynaFlowTasks() {
		if !flows[task.DynaFlowID] {
			continue
		}
		if task.Sequence <= 0 {
			res.Violations = append(res.Violations, block(dynaFlowTaskSequenceRuleName, EntityDynaFlowTask, task.ID,
				fmt.Sprintf("task sequence must be positive, got %d", task.Sequence)))
			continue
		}
		if seen[task.DynaFlowID] == nil {
			seen[task.DynaFlowID] = make(map[int]string)
		}
		if other, dup := seen[task.DynaFlowID][task.Sequence]; dup {
			res.Violations = append(res.Violations, block(dynaFlowTaskSequenceRuleName, EntityDynaFlowTask, task.ID,
				fmt.Sprintf("sequence %d already used by task %s", task.Sequence, other)))
			continue
		}
		seen[task.DynaFlowID][task.Sequence] = task.ID
	}
	return res, nil
}
