package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config defines the token service configuration loaded from files and
// environment.
type Config struct {
	Env    string       `koanf:"env"`
	Server ServerConfig `koanf:"server"`
	Issuer IssuerConfig `koanf:"issuer"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

type IssuerConfig struct {
	// Name is the iss claim value stamped into every token.
	Name string `koanf:"name"`

	// SigningKeyPEM is an RSA private key in PKCS#1 PEM. When empty a
	// throwaway key pair is generated at startup.
	SigningKeyPEM string `koanf:"signing_key_pem"`
	KeyID         string `koanf:"key_id"`

	AccessTokenLifetime   time.Duration `koanf:"access_token_lifetime"`
	IdentityTokenLifetime time.Duration `koanf:"identity_token_lifetime"`
	RefreshTokenLifetime  time.Duration `koanf:"refresh_token_lifetime"`
}

// Load builds the configuration. Loading order:
//  1. config/config.yaml (optional)
//  2. config/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
//  3. environment variables with prefix ISSUER_ mapped using __ as nested
//     separator, e.g. ISSUER_SERVER__PORT
func Load() (*Config, error) {
	k := koanf.New(".")

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}

	base := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(base); err == nil {
		if err := k.Load(file.Provider(base), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "[config.Load] base config file")
		}
	}

	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "local"
	}
	envFile := filepath.Join(configDir, "config."+envName+".yaml")
	if _, err := os.Stat(envFile); err == nil {
		if err := k.Load(file.Provider(envFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "[config.Load] env config file")
		}
	}

	if err := k.Load(env.Provider("ISSUER_", ".", func(s string) string {
		// ISSUER_SERVER__PORT -> server.port
		s = strings.TrimPrefix(s, "ISSUER_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, "[config.Load] environment")
	}

	c := &Config{Env: envName}
	if err := k.Unmarshal("", c); err != nil {
		return nil, errors.Wrap(err, "[config.Load] unmarshal")
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if !strings.HasPrefix(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if c.Issuer.Name == "" {
		c.Issuer.Name = "http://localhost" + c.Server.Port
	}
	if c.Issuer.KeyID == "" {
		c.Issuer.KeyID = "default"
	}
	if c.Issuer.AccessTokenLifetime == 0 {
		c.Issuer.AccessTokenLifetime = time.Hour
	}
	if c.Issuer.IdentityTokenLifetime == 0 {
		c.Issuer.IdentityTokenLifetime = time.Hour
	}
	if c.Issuer.RefreshTokenLifetime == 0 {
		c.Issuer.RefreshTokenLifetime = 30 * 24 * time.Hour
	}
}
