package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity> [key=value...]",
		Short: "List records, optionally filtered",
		Long: `List prints the records of an entity as JSON. Filters are key=value
pairs and are ANDed together.

Filter keys:
  movies:   id title genre director min_duration max_duration release_year rating
  sessions: id movie_id room start_from start_to seat
  tickets:  id session_id client_name seat purchased_from purchased_to ticket_type min_price max_price

Example:
  boxoffice list movies genre=drama rating=16
  boxoffice list sessions movie_id=1 start_from=2024-05-01T00:00:00Z`,
		Args: withArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseFilterArgs(args[1:])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				_, store, err := storeFor(b, args[0])
				if err != nil {
					return err
				}
				records, err := store.list(ctx, params)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), records)
			})
		},
	}
}
