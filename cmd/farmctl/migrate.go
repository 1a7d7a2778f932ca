package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"farmcore/internal/core"
	"farmcore/internal/entitymodel/sqlbundle"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var printDialect string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the farmcore tables in the configured store",
		Long: `Opens the configured store, which applies the schema when it is missing.

With --print the DDL for the given dialect (sqlite or postgres) is written to
stdout instead and no store is opened.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if printDialect != "" {
				dialect, err := sqlbundle.ParseDialect(printDialect)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, dialect.DDL())
				return err
			}

			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if _, ok := a.store.(core.SQLStore); !ok {
				_, err = fmt.Fprintf(out, "storage driver %s keeps no schema\n", a.cfg.Storage.Driver)
				return err
			}
			a.logger.Info("schema applied", "storage", a.cfg.Storage.Driver)
			_, err = fmt.Fprintf(out, "schema ready (%s)\n", a.cfg.Storage.Driver)
			return err
		},
	}
	cmd.Flags().StringVar(&printDialect, "print", "", "print the DDL for a dialect and exit")
	return cmd
}
