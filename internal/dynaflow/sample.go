package dynaflow

import (
	"context"
	"fmt"
)

// Built-in flow and task names.
const (
	PlantSampleWorkflow = "plant_sample_workflow"
	PlantSampleTask1    = "plant_sample_task_1"
	PlantSampleTask2    = "plant_sample_task_2"
)

// PlantSampleDefinition chains the two sample print tasks.
func PlantSampleDefinition() Definition {
	return Definition{
		FlowType:    PlantSampleWorkflow,
		Description: "Sample flow printing the plant parameters twice",
		Tasks: []Task{
			printTask(PlantSampleTask1),
			printTask(PlantSampleTask2),
		},
	}
}

// printTask logs the flow's plant_id and message parameters.
func printTask(name string) Task {
	return TaskFunc{
		TaskName: name,
		Fn: func(_ context.Context, tc TaskContext) (string, error) {
			message := tc.Param("message").String()
			if message == "" {
				message = "hello from " + name
			}
			tc.Logger.Info("dyna flow task print",
				"task", name,
				"dyna_flow_id", tc.Flow.ID,
				"plant_id", tc.Param("plant_id").String(),
				"message", message,
			)
			return fmt.Sprintf("%s: %s", name, message), nil
		},
	}
}
