package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Print one record as JSON",
		Args:  withArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				_, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				record, err := store.get(ctx, id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}
