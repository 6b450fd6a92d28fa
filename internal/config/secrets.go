package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/zjrosen/signup/internal/log"
)

// Secret names, looked up in the environment first and then in the secrets file.
const (
	SecretURL = "SUPABASE_URL"
	SecretKey = "SUPABASE_KEY"
)

// DefaultSecretsPath is the TOML secret store read when --secrets is not given.
const DefaultSecretsPath = ".streamlit/secrets.toml"

// Secrets holds the credentials for the hosted table.
type Secrets struct {
	URL string
	Key string
}

// LoadSecrets resolves the service URL and access key. Environment variables win over
// the TOML file at path. A missing file is not an error; a malformed one is.
func LoadSecrets(path string) (Secrets, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Debug(log.CatConfig, "No secrets file", "path", path)
		case err != nil:
			return Secrets{}, fmt.Errorf("reading secrets file: %w", err)
		default:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Secrets{}, fmt.Errorf("parsing secrets file %s: %w", path, err)
			}
			log.Debug(log.CatConfig, "Loaded secrets file", "path", path, "bytes", len(data))
		}
	}

	_ = v.BindEnv(SecretURL)
	_ = v.BindEnv(SecretKey)

	return Secrets{
		URL: v.GetString(SecretURL),
		Key: v.GetString(SecretKey),
	}, nil
}

// Apply copies non-empty secrets into the remote configuration.
func (s Secrets) Apply(c *Config) {
	if s.URL != "" {
		c.Remote.URL = s.URL
	}
	if s.Key != "" {
		c.Remote.Key = s.Key
	}
}
