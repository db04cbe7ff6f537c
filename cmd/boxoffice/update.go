package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <entity> <id> <json|->",
		Short: "Replace a record with JSON",
		Long: `Update replaces the record stored under id. The JSON object must carry
the same id; every field is replaced.`,
		Args: withArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			data, err := recordInput(cmd, args[2])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				e, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				record, err := store.update(ctx, id, data)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), record)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d\n", e.Singular(), id)
				return nil
			})
		},
	}
}
