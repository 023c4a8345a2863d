package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/homefeed/internal/core"
	"github.com/spf13/cobra"
)

const maxLimit = 200

func newRootCmd(open opener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed <handle>",
		Short: "Print the ranked home feed for a user",
		Long: `Resolves the accounts <handle> follows in Neo4j, loads their posts from the
last 24 hours in MongoDB, ranks them by recency and likes and prints the top
entries as JSON.

Subcommands ping and indexes check connectivity and create the read-path
indexes; a user whose handle collides with a subcommand name can still be
queried through the HTTP server.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("%w: expected exactly one handle", core.ErrUsage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 || limit > maxLimit {
				return fmt.Errorf("%w: --limit must be between 0 and %d (0 uses feed.top_k)", core.ErrUsage, maxLimit)
			}
			return runFeed(cmd.Context(), cmd.OutOrStdout(), open, args[0], limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries to print (0 uses feed.top_k)")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", core.ErrUsage, err)
	})

	cmd.AddCommand(newPingCmd(open), newIndexesCmd(open))
	return cmd
}

func runFeed(ctx context.Context, out io.Writer, open opener, handle string, limit int) error {
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	feed, err := a.BuildFeed(ctx, handle, limit)
	if err != nil {
		return err
	}
	if feed.NoFollowees() {
		fmt.Fprintf(out, "No followees found for handle: %s\n", handle)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(feed.Entries)
}
