package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Remove a record",
		Long: `Delete removes the record stored under id. A movie with sessions or a
session with tickets cannot be deleted until its dependents are gone.`,
		Args: withArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				e, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				if err := store.delete(ctx, id); err != nil {
					return err
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"entity": e, "id": id, "deleted": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", e.Singular(), id)
				return nil
			})
		},
	}
}
