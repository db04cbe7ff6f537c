package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/pkg/boxoffice"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the boxoffice version",
		Args:  withArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "boxoffice v%s\nmodule: %s\n", boxoffice.Version, boxoffice.ModulePath)
			return nil
		},
	}
}
