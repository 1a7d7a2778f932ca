package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"farmcore/internal/business"
	"farmcore/internal/core"
	"farmcore/internal/flows"
)

type bootstrapOptions struct {
	pac          string
	tac          string
	customerCode string
	expiresIn    time.Duration
}

func newBootstrapCmd(opts *rootOptions) *cobra.Command {
	b := &bootstrapOptions{}
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create a pac and tac and issue their first admin API key",
		Long: `Finds or creates the named pac and tac, then issues an admin API key for the
tac. The key value is printed once and cannot be recovered later.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return bootstrap(cmd, a.svc, b)
		},
	}
	cmd.Flags().StringVar(&b.pac, "pac", "Main", "pac name")
	cmd.Flags().StringVar(&b.tac, "tac", "Main", "tac name")
	cmd.Flags().StringVar(&b.customerCode, "customer-code", "admin", "customer code recorded on the key")
	cmd.Flags().DurationVar(&b.expiresIn, "expires-in", 0, "key lifetime (0 never expires)")
	return cmd
}

func bootstrap(cmd *cobra.Command, svc *core.Service, b *bootstrapOptions) error {
	ctx := cmd.Context()
	pac, err := findOrCreatePac(ctx, svc, b.pac)
	if err != nil {
		return err
	}
	tac, err := findOrCreateTac(ctx, pac, b.tac)
	if err != nil {
		return err
	}

	req := flows.TacAddOrgAPIKeyRequest{
		TacID:        tac.ID(),
		Name:         "bootstrap",
		CustomerCode: b.customerCode,
		RoleNames:    []string{flows.RoleAdmin},
	}
	if b.expiresIn > 0 {
		req.ExpiresAt = svc.Now().Add(b.expiresIn).UTC()
	}
	key, err := flows.IssueAPIKey(ctx, svc, req, "farmctl")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pac_id:  %s\n", pac.ID())
	fmt.Fprintf(out, "tac_id:  %s\n", tac.ID())
	_, err = fmt.Fprintf(out, "api_key: %s\n", key.APIKeyValue)
	return err
}

func findOrCreatePac(ctx context.Context, svc *core.Service, name string) (*business.PacBusObj, error) {
	pacs, err := business.ListPacs(ctx, svc)
	if err != nil {
		return nil, err
	}
	for _, p := range pacs {
		if strings.EqualFold(p.Record().LookupEnumName, name) {
			return p, nil
		}
	}
	pac := business.NewPac(svc).SetName(name).SetLookupEnumName(name).SetIsActive(true)
	if err := pac.Save(ctx); err != nil {
		return nil, fmt.Errorf("create pac %s: %w", name, err)
	}
	return pac, nil
}

func findOrCreateTac(ctx context.Context, pac *business.PacBusObj, name string) (*business.TacBusObj, error) {
	tacs, err := pac.Tacs(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tacs {
		if strings.EqualFold(t.Record().LookupEnumName, name) {
			return t, nil
		}
	}
	tac := pac.BuildTac().SetName(name).SetLookupEnumName(name).SetIsActive(true)
	if err := tac.Save(ctx); err != nil {
		return nil, fmt.Errorf("create tac %s: %w", name, err)
	}
	return tac, nil
}
