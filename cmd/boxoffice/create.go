package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <entity> <json|->",
		Short: "Create a record from JSON",
		Long: `Create inserts a record given as a JSON object, or read from stdin
when the argument is "-".

Example:
  boxoffice create movies '{"id":1,"title":"Bacurau","genres":["Western"],"director":"Kleber Mendonça Filho","duration_minutes":131,"release_year":2019,"rating":"16"}'`,
		Args: withArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := recordInput(cmd, args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				e, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				record, err := store.create(ctx, data)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), record)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", e.Singular())
				return nil
			})
		},
	}
}
