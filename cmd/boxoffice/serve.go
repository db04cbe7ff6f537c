package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boxoffice/internal/flatfile"
	"github.com/mesh-intelligence/boxoffice/internal/httpapi"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stores over HTTP",
		Long: `Serve exposes every entity under /<entity>, /<entity>/:id,
/<entity>-count and /<entity>-zip until interrupted.`,
		Args: withArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.v.GetString(cfgKeyServerAddr)
			}
			return a.withBackend(cmd, func(ctx context.Context, b *flatfile.Backend) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				gin.SetMode(gin.ReleaseMode)
				router := httpapi.NewRouter(b, b.Config(), a.logger)
				if err := httpapi.Serve(ctx, addr, router, shutdownGrace, a.logger); err != nil {
					return systemError(err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config, "+defaultServerAddr+")")
	return cmd
}
