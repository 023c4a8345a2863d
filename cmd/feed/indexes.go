package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the indexes the feed read path relies on",
		Long: `Creates the User handle and mongoId indexes in Neo4j and the users, posts,
likes and comments indexes in MongoDB. Indexes that already exist are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			if err := a.BuildIndices(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		},
	}
}
