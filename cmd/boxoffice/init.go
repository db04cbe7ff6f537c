package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
	"github.com/mesh-intelligence/boxoffice/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the store files",
		Long: `Init creates the configuration directory with a default config.yaml,
then creates the data directory and a header-only file for every store
that does not exist yet. Existing files are left untouched.`,
		Args: withArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.resolvedConfigDir, 0o755); err != nil {
				return systemError(fmt.Errorf("create config directory: %w", err))
			}
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return err
			}
			wrote, err := writeConfigIfMissing(paths.ConfigFile(a.resolvedConfigDir), dataDir)
			if err != nil {
				return systemError(err)
			}
			if wrote {
				// Pick up the file just written.
				if a.v, err = loadConfig(a.resolvedConfigDir); err != nil {
					return systemError(err)
				}
			}

			err = a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				if err := b.Initialize(ctx); err != nil {
					return systemError(fmt.Errorf("initialize stores: %w", err))
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Boxoffice initialized in %s\n", dataDir)
			return nil
		},
	}
}
