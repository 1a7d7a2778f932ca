package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"farmcore/internal/reports"
)

type reportOptions struct {
	params []string
	page   reports.PageRequest
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "List, run and export reports",
	}
	cmd.AddCommand(
		newReportListCmd(opts),
		newReportRunCmd(opts),
		newReportExportCmd(opts),
	)
	return cmd
}

func newReportListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List report definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			provider, _, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARAMS\tDESCRIPTION")
			for _, def := range provider.Definitions() {
				names := make([]string, len(def.Params))
				for i, p := range def.Params {
					names[i] = p.Name
					if p.Required {
						names[i] += "*"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, strings.Join(names, ","), def.Description)
			}
			return w.Flush()
		},
	}
}

func newReportRunCmd(opts *rootOptions) *cobra.Command {
	r := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Run one page of a report and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(r.params)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			provider, _, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			page, err := provider.Run(cmd.Context(), args[0], params, r.page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	r.bind(cmd, true)
	return cmd
}

func newReportExportCmd(opts *rootOptions) *cobra.Command {
	r := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Export every row of a report as CSV to the blob store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(r.params)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			_, exporter, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			res, err := exporter.Export(cmd.Context(), args[0], params, r.page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	r.bind(cmd, false)
	return cmd
}

func (r *reportOptions) bind(cmd *cobra.Command, paging bool) {
	f := cmd.Flags()
	f.StringArrayVarP(&r.params, "param", "p", nil, "report parameter as name=value (repeatable)")
	f.StringVar(&r.page.OrderByColumnName, "order-by", "", "order column")
	f.BoolVar(&r.page.OrderByDescending, "desc", false, "order descending")
	if paging {
		f.IntVar(&r.page.PageNumber, "page", 1, "page number")
		f.IntVar(&r.page.ItemCountPerPage, "per-page", reports.DefaultItemCountPerPage, "rows per page")
	}
}

func parseParams(raw []string) (map[string]any, error) {
	params := make(map[string]any, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", kv)
		}
		params[strings.TrimSpace(name)] = value
	}
	return params, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
