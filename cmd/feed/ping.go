package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/agenthands/homefeed/internal/core"
	"github.com/spf13/cobra"
)

func newPingCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the graph and document stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			checks := a.HealthChecks()
			names := make([]string, 0, len(checks))
			for name := range checks {
				names = append(names, name)
			}
			sort.Strings(names)

			failed := 0
			for _, name := range names {
				if err := checks[name].HealthCheck(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d stores unreachable", core.ErrStoreUnavailable, failed, len(names))
			}
			return nil
		},
	}
}
