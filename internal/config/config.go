// Package config loads runtime configuration from a config file, environment
// variables, and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the CLI and server need to wire the pipeline.
type Config struct {
	// BaseDir is where manifests, install scripts, the registry, and the
	// credential store live. The PVESCRIPTS_DIR environment variable
	// overrides it.
	BaseDir string `mapstructure:"base_dir"`

	// GithubToken is the fallback token used when no stored credential
	// matches github.com.
	GithubToken string `mapstructure:"github_token"`

	// Secret encrypts the credential store at rest.
	Secret string `mapstructure:"secret"`

	// Listen is the HTTP API bind address.
	Listen string `mapstructure:"listen"`
}

// Load reads configuration. Precedence, lowest to highest: defaults, config
// file, environment. cfgFile may be empty, in which case ~/.scriptport.yaml
// is tried.
func Load(cfgFile string) (*Config, error) {
	// A .env next to the working directory is a convenience for tokens and
	// the store secret; missing files are fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("base_dir", "/opt/pvescripts")
	v.SetDefault("listen", ":8090")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigType("yaml")
			v.SetConfigName(".scriptport")
		}
	}

	v.BindEnv("base_dir", "PVESCRIPTS_DIR")
	v.BindEnv("github_token", "GITHUB_TOKEN")
	v.BindEnv("secret", "SCRIPTPORT_SECRET")
	v.BindEnv("listen", "SCRIPTPORT_LISTEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// RegistryPath returns the registry document location under BaseDir.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.BaseDir, "registry.json")
}

// CredentialsPath returns the encrypted credential store location.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.BaseDir, "credentials.enc")
}

// CategoriesPath returns the user category file location.
func (c *Config) CategoriesPath() string {
	return filepath.Join(c.BaseDir, "categories.yaml")
}
