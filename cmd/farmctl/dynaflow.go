package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"farmcore/internal/dynaflow"
)

func newDynaFlowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynaflow",
		Short: "Request and inspect dyna flows",
	}
	cmd.AddCommand(
		newDynaFlowTypesCmd(),
		newDynaFlowRequestCmd(opts),
		newDynaFlowShowCmd(opts),
	)
	return cmd
}

func newDynaFlowTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered flow types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := dynaflow.DefaultRegistry()
			for _, name := range reg.FlowTypes() {
				def, _ := reg.Lookup(name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, def.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newDynaFlowRequestCmd(opts *rootOptions) *cobra.Command {
	req := dynaflow.FlowRequest{}
	cmd := &cobra.Command{
		Use:   "request FLOW_TYPE",
		Short: "Store a dyna flow request and queue it",
		Long: `Stores the request and pushes it to the configured queue. With the redis
queue driver a running "farmctl serve" on the same database picks it up and
reloads its working set to see the new row. With the channel queue driver the
flow stays requested until the next "farmctl serve" starts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			queue, err := a.openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = queue.Close() }()

			req.FlowType = args[0]
			flow, err := dynaflow.NewDispatcher(a.svc, nil, queue).Request(cmd.Context(), req)
			if err != nil && flow.ID == "" {
				return err
			}
			if err != nil {
				a.logger.Warn("dyna flow stored but not queued", "dyna_flow_id", flow.ID, "error", err)
			}
			return writeJSON(cmd.OutOrStdout(), flow)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.TacID, "tac", "", "requesting tac")
	f.StringVar(&req.Description, "description", "", "free text description")
	f.StringVar(&req.Param, "param", "", "JSON parameter document")
	f.IntVar(&req.Priority, "priority", 0, "higher runs first on requeue")
	return cmd
}

func newDynaFlowShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a dyna flow with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			d := dynaflow.NewDispatcher(a.svc, nil, dynaflow.NewChannelQueue(1))
			flow, err := d.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tasks, err := d.Tasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Flow  any `json:"dyna_flow"`
				Tasks any `json:"tasks"`
			}{flow, tasks})
		},
	}
}
