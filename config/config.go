/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads repeater definitions, per-module repeater declarations
// and datastore settings from a YAML file, with environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/suparena/jsonrepeater/declaration"
	"github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/registry"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Environment variables read by FromEnv.
const (
	EnvConfigPath   = "JSONREPEATER_CONFIG"
	EnvAWSRegion    = "AWS_REGION"
	EnvAWSAccessKey = "AWS_ACCESS_KEY"
	EnvAWSSecretKey = "AWS_SECRET_KEY"
	EnvDDBTable     = "AWS_DDB_TABLE"
	EnvDDBEndpoint  = "AWS_DDB_ENDPOINT"
)

// Config is the jsonrepeater configuration file.
type Config struct {
	Version     int                     `yaml:"version"`
	CacheSize   int                     `yaml:"cacheSize,omitempty"`
	Definitions []registry.Definition   `yaml:"definitions"`
	Modules     map[string]ModuleConfig `yaml:"modules"`
	DynamoDB    DynamoDBConfig          `yaml:"dynamodb,omitempty"`
}

// ModuleConfig declares the JSON repeaters of one content module.
type ModuleConfig struct {
	JSONRepeaters declaration.Declaration `yaml:"jsonRepeaters"`
}

// DynamoDBConfig locates the table records are stored in. Credentials are
// only taken from the environment.
type DynamoDBConfig struct {
	Region    string `yaml:"region,omitempty"`
	Table     string `yaml:"table,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a Config. Malformed repeater declarations fail here.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if cfg.Version == 0 {
		cfg.Version = CurrentConfigVersion
	}
	return &cfg, nil
}

// FromEnv loads an optional .env file, reads the config file named by
// JSONREPEATER_CONFIG when set and applies the AWS overrides.
func FromEnv() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := &Config{Version: CurrentConfigVersion}
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides DynamoDB settings with non-empty variables from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DynamoDB.Region, EnvAWSRegion)
	set(&c.DynamoDB.Table, EnvDDBTable)
	set(&c.DynamoDB.Endpoint, EnvDDBEndpoint)
	set(&c.DynamoDB.AccessKey, EnvAWSAccessKey)
	set(&c.DynamoDB.SecretKey, EnvAWSSecretKey)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.NewValidationError("version", fmt.Sprintf("unsupported config version %d", c.Version))
	}
	if c.CacheSize < 0 {
		return errors.NewValidationError("cacheSize", "must not be negative")
	}
	seen := make(map[string]struct{}, len(c.Definitions))
	for i, def := range c.Definitions {
		if def.Name == "" {
			return errors.NewValidationError(fmt.Sprintf("definitions[%d].name", i), "must not be empty")
		}
		if _, dup := seen[def.Name]; dup {
			return errors.NewAlreadyExistsError("repeater definition", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	for name := range c.Modules {
		if name == "" {
			return errors.NewValidationError("modules", "module name must not be empty")
		}
	}
	return nil
}

// Registry builds a definition registry from the configured definitions.
func (c *Config) Registry() (*registry.Registry, error) {
	reg := registry.New()
	for _, def := range c.Definitions {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ModuleNames returns the configured module names, sorted.
func (c *Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}
