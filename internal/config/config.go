// Package config loads the kanbo YAML configuration file shared by the
// server and the terminal board client.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values like "5s" parse from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Storage backends selectable for the server.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageS3     = "s3"
)

// S3Config configures the S3/MinIO board storage backend.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
	DisableChecksum bool   `yaml:"disable_checksum"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Addr       string   `yaml:"addr"`
	Storage    string   `yaml:"storage"`
	SQLitePath string   `yaml:"sqlite_path"`
	Seed       bool     `yaml:"seed"`
	S3         S3Config `yaml:"s3"`
}

// ClientConfig configures the terminal board client.
type ClientConfig struct {
	ServerURL string        `yaml:"server_url"`
	Timeout   Duration `yaml:"timeout"`
}

// Config is the top-level configuration document.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

// Default returns the configuration used when no file is given: an
// in-memory, seeded server on :8080 and a client pointed at it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			Storage:    StorageMemory,
			SQLitePath: "kanbo.db",
			Seed:       true,
		},
		Client: ClientConfig{
			ServerURL: "http://localhost:8080",
			Timeout:   Duration(10 * time.Second),
		},
	}
}

// Load reads the configuration file at path, filling unset fields with
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Server.Storage {
	case StorageMemory, StorageSQLite:
	case StorageS3:
		if c.Server.S3.Endpoint == "" {
			return fmt.Errorf("s3 storage requires server.s3.endpoint")
		}
		if c.Server.S3.Bucket == "" {
			return fmt.Errorf("s3 storage requires server.s3.bucket")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Server.Storage)
	}
	if c.Client.ServerURL == "" {
		return fmt.Errorf("client.server_url must not be empty")
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	return nil
}
