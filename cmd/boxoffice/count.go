package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <entity>",
		Short: "Print the number of records",
		Args:  withArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				e, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				n, err := store.count(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"entity": e, "count": n})
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}
