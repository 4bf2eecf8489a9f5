package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIKey      string `long:"api-key" env:"FAVORITES_API_KEY" description:"Shared secret for the favorites endpoints"`
	CORSOrigins string `long:"cors-origins" env:"FAVORITES_CORS_ORIGINS" default:"*" description:"Comma-separated list of allowed CORS origins"`

	// Storage configuration
	DataDir string `long:"data-dir" env:"FAVORITES_DATA_DIR" default:"data/favorites" description:"Root directory for favorite event partitions"`

	// Application configuration
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"60" description:"Stats refresh interval in seconds (0 disables)"`
	ConfigFile      string `long:"config" env:"CONFIG_FILE" description:"Optional YAML configuration file"`
	Debug           bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type fileCfg struct {
	Port            *string `yaml:"port"`
	APIKey          *string `yaml:"api_key"`
	CORSOrigins     *string `yaml:"cors_origins"`
	DataDir         *string `yaml:"data_dir"`
	RefreshInterval *int    `yaml:"refresh_interval"`
	Debug           *bool   `yaml:"debug"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.ConfigFile != "" {
		if err := applyConfigFile(&raw, raw.ConfigFile); err != nil {
			return nil, err
		}
	}

	cfg := newCfg(&raw)

	globalCfg = cfg

	return cfg, nil
}

func newCfg(raw *rawCfg) *Cfg {
	return &Cfg{
		Port:            raw.Port,
		APIKey:          raw.APIKey,
		CORSOrigins:     SplitOrigins(raw.CORSOrigins),
		DataDir:         raw.DataDir,
		RefreshInterval: raw.RefreshInterval,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// applyConfigFile replaces flag/env values with the ones present in the
// YAML file. Absent keys keep their flag/env values.
func applyConfigFile(raw *rawCfg, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file fileCfg
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.Port != nil {
		raw.Port = *file.Port
	}
	if file.APIKey != nil {
		raw.APIKey = *file.APIKey
	}
	if file.CORSOrigins != nil {
		raw.CORSOrigins = *file.CORSOrigins
	}
	if file.DataDir != nil {
		raw.DataDir = *file.DataDir
	}
	if file.RefreshInterval != nil {
		raw.RefreshInterval = *file.RefreshInterval
	}
	if file.Debug != nil {
		raw.Debug = *file.Debug
	}

	return nil
}

// SplitOrigins parses a comma-separated origin list. An empty list falls
// back to the wildcard.
func SplitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
