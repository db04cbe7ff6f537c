package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/export"
	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outDir   string
		toSQLite bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive the store files",
		Long: `Export writes ` + export.ArchiveName + ` and ` + export.ManifestName + ` to the output
directory. With --sqlite it also writes ` + export.SnapshotName + `, a SQLite copy of
every store for ad-hoc queries.`,
		Args: withArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				m, err := export.Write(ctx, b, b.Config(), export.Options{OutDir: outDir, SQLite: toSQLite})
				if err != nil {
					return systemError(err)
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), m)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s (export %s)\n", len(m.Files), outDir, m.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "boxoffice-export", "output directory")
	cmd.Flags().BoolVar(&toSQLite, "sqlite", false, "also write a SQLite snapshot")
	return cmd
}
