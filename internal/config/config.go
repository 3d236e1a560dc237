package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/util"
)

// Config provides configuration for the hold'em server
type Config struct {
	loaded bool

	// MaxClients is the connection cap; connects beyond it are rejected
	MaxClients int `yaml:"maxClients" envconfig:"max_clients"`

	// TableSeed seeds each table's shuffle RNG when non-zero.
	// Only for reproducible runs; leave zero in production.
	TableSeed int64 `yaml:"tableSeed" envconfig:"table_seed"`

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

const defaultMaxClients = 102

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; env vars and defaults still apply
func Load() error {
	config = Config{}

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &config); err != nil {
		return err
	}

	if config.MaxClients <= 0 {
		config.MaxClients = defaultMaxClients
	}

	config.loaded = true
	return nil
}
