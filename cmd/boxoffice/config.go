package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/boxoffice/internal/paths"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BOXOFFICE"

	cfgKeyDataDir            = "data_dir"
	cfgKeyPrimaryDelimiter   = "primary_delimiter"
	cfgKeySecondaryDelimiter = "secondary_delimiter"
	cfgKeyOpTimeout          = "op_timeout"
	cfgKeyMoviesFile         = "files.movies"
	cfgKeySessionsFile       = "files.sessions"
	cfgKeyTicketsFile        = "files.tickets"
	cfgKeyLogLevel           = "log.level"
	cfgKeyLogFile            = "log.file"
	cfgKeyServerAddr         = "server.addr"

	defaultLogLevel   = "warn"
	defaultServerAddr = ":8080"
)

// envKeys may be overridden by BOXOFFICE_* variables. data_dir is left
// out: its environment variable ranks below config.yaml and is handled
// by paths.ResolveDataDir.
var envKeys = []string{
	cfgKeyPrimaryDelimiter,
	cfgKeySecondaryDelimiter,
	cfgKeyOpTimeout,
	cfgKeyMoviesFile,
	cfgKeySessionsFile,
	cfgKeyTicketsFile,
	cfgKeyLogLevel,
	cfgKeyLogFile,
	cfgKeyServerAddr,
}

// loadEnvFile loads .env from the config directory when present. Variables
// already set in the environment win.
func loadEnvFile(configDir string) error {
	path := paths.EnvFile(configDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults and environment overrides still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyPrimaryDelimiter, types.DefaultPrimaryDelimiter)
	v.SetDefault(cfgKeySecondaryDelimiter, types.DefaultSecondaryDelimiter)
	v.SetDefault(cfgKeyOpTimeout, types.DefaultOpTimeout)
	v.SetDefault(cfgKeyMoviesFile, types.DefaultMoviesFile)
	v.SetDefault(cfgKeySessionsFile, types.DefaultSessionsFile)
	v.SetDefault(cfgKeyTicketsFile, types.DefaultTicketsFile)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfig builds the backend configuration for dataDir from v.
func storeConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		DataDir:            dataDir,
		MoviesFile:         v.GetString(cfgKeyMoviesFile),
		SessionsFile:       v.GetString(cfgKeySessionsFile),
		TicketsFile:        v.GetString(cfgKeyTicketsFile),
		PrimaryDelimiter:   v.GetString(cfgKeyPrimaryDelimiter),
		SecondaryDelimiter: v.GetString(cfgKeySecondaryDelimiter),
		OpTimeout:          v.GetDuration(cfgKeyOpTimeout),
	}
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	DataDir            string `yaml:"data_dir,omitempty"`
	PrimaryDelimiter   string `yaml:"primary_delimiter"`
	SecondaryDelimiter string `yaml:"secondary_delimiter"`
	OpTimeout          string `yaml:"op_timeout"`
	Files              struct {
		Movies   string `yaml:"movies"`
		Sessions string `yaml:"sessions"`
		Tickets  string `yaml:"tickets"`
	} `yaml:"files"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func defaultConfigFile(dataDir string) configFile {
	var cfg configFile
	cfg.DataDir = dataDir
	cfg.PrimaryDelimiter = types.DefaultPrimaryDelimiter
	cfg.SecondaryDelimiter = types.DefaultSecondaryDelimiter
	cfg.OpTimeout = types.DefaultOpTimeout.String()
	cfg.Files.Movies = types.DefaultMoviesFile
	cfg.Files.Sessions = types.DefaultSessionsFile
	cfg.Files.Tickets = types.DefaultTicketsFile
	cfg.Log.Level = defaultLogLevel
	cfg.Server.Addr = defaultServerAddr
	return cfg
}

// writeConfigIfMissing creates config.yaml with default values unless it
// already exists. It reports whether the file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := defaultConfigFile(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# Boxoffice configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
