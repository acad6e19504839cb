// Package config loads bankscrap.yaml and merges bank credentials from the
// config file, the environment and the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
)

// EnvPrefix starts every credential environment variable:
// BANKSCRAP_<BANK>_<KEY>, e.g. BANKSCRAP_CSVBANK_DIR.
const EnvPrefix = "BANKSCRAP_"

// Config represents the top-level bankscrap.yaml configuration.
type Config struct {
	Log          LogConfig             `yaml:"log"`
	Transactions TransactionsConfig    `yaml:"transactions"`
	Banks        map[string]BankConfig `yaml:"banks,omitempty"`
}

// LogConfig controls the logger handed to clients and adapters.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// TransactionsConfig controls the default transaction window.
type TransactionsConfig struct {
	LookbackYears int `yaml:"lookback_years"`
}

// BankConfig holds per-bank defaults.
type BankConfig struct {
	Credentials map[string]string `yaml:"credentials,omitempty"`
	IBAN        string            `yaml:"iban,omitempty"`
}

// Load reads a bankscrap.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file yields Default.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Transactions: TransactionsConfig{
			LookbackYears: 2,
		},
	}
}

// Bank returns the settings for bankName, matched on the normalized name.
func (c *Config) Bank(bankName string) BankConfig {
	key := adapters.Normalize(bankName)
	for name, bc := range c.Banks {
		if adapters.Normalize(name) == key {
			return bc
		}
	}
	return BankConfig{}
}

// ReadEnvFile reads KEY=value pairs from a .env file without touching the
// process environment. A missing file yields no pairs.
func ReadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return env, nil
}

// EnvCredentials extracts the credentials for bankName from env.
// BANKSCRAP_CSVBANK_DIR=/x becomes {"dir": "/x"}.
func EnvCredentials(bankName string, env map[string]string) map[string]string {
	prefix := EnvPrefix + strings.ToUpper(adapters.Normalize(bankName)) + "_"
	creds := make(map[string]string)
	for k, v := range env {
		if key, ok := strings.CutPrefix(k, prefix); ok && key != "" {
			creds[strings.ToLower(key)] = v
		}
	}
	return creds
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Credentials merges the credential sources for bankName. Later sources win:
// config file, env file, process environment, flags.
func (c *Config) Credentials(bankName string, envFile, environ, flags map[string]string) map[string]string {
	creds := make(map[string]string)
	for k, v := range c.Bank(bankName).Credentials {
		creds[k] = v
	}
	for _, env := range []map[string]string{envFile, environ} {
		for k, v := range EnvCredentials(bankName, env) {
			creds[k] = v
		}
	}
	for k, v := range flags {
		creds[k] = v
	}
	return creds
}
