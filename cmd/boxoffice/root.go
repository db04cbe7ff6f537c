package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/boxoffice/internal/logging"
	"github.com/mesh-intelligence/boxoffice/internal/paths"
	"github.com/mesh-intelligence/boxoffice/pkg/boxoffice"
)

// app holds global flag values and the state PersistentPreRunE prepares
// for subcommands.
type app struct {
	configDir string
	dataDir   string
	jsonOut   bool
	logLevel  string

	resolvedConfigDir string
	v                 *viper.Viper
	logger            *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "boxoffice",
		Short:   "Manage cinema movies, sessions and tickets",
		Long:    "Boxoffice keeps movies, sessions and tickets in flat delimited files\nand enforces the references between them.",
		Version: boxoffice.Version,
		// Errors are printed once by the root command.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $BOXOFFICE_CONFIG_DIR or the platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newCountCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})
	return root
}

// setup resolves the config directory, loads .env and config.yaml, and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.resolvedConfigDir = configDir

	if err := loadEnvFile(configDir); err != nil {
		return systemError(err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	a.v = v

	level := a.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	logger, err := logging.New(level, v.GetString(cfgKeyLogFile))
	if err != nil {
		return usageError(err)
	}
	a.logger = logger
	return nil
}
