package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the Bancho server.
type Server struct {
	// MainDomain is the public domain; subdomains like a.<domain>
	// (avatars) and c.<domain> (client endpoints) hang off it.
	MainDomain string `yaml:"main_domain"`

	// HTTP listener
	HTTPHost string `yaml:"http_host"`
	HTTPPort int    `yaml:"http_port"`

	// AvatarDir holds per-user avatar images named <user_id>.png.
	AvatarDir string `yaml:"avatar_dir"`

	// Sessions idle longer than IdleTimeout are logged out by the
	// sweeper, which wakes every SweepInterval.
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	Database DatabaseConfig `yaml:"database"`

	Debug bool `yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Server config with sensible defaults.
func Default() Server {
	return Server{
		MainDomain:    "localhost",
		HTTPHost:      "0.0.0.0",
		HTTPPort:      2137,
		AvatarDir:     "data/avatars",
		IdleTimeout:   5 * time.Minute,
		SweepInterval: 30 * time.Second,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "onecho",
			Password: "onecho",
			DBName:   "onecho",
			SSLMode:  "disable",
		},
	}
}

// Load loads server config from a YAML file, then applies environment
// overrides. If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides select fields from the environment, for container
// deployments that can't mount a config file.
func (c *Server) applyEnv() {
	if v := os.Getenv("MAIN_DOMAIN"); v != "" {
		c.MainDomain = v
	}
	if v := os.Getenv("HTTP_HOST"); v != "" {
		c.HTTPHost = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = port
		}
	}
}

// Addr returns the host:port the HTTP listener binds.
func (c Server) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
