package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	DBHost     string `yaml:"db_host"`
	DBPort     int    `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	// Store selects where the selected goal and its actuals are kept.
	Store     string `yaml:"store"`
	StorePath string `yaml:"store_path"`

	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// SeedPath names a JSONC file of goals that replaces the built-in list.
	SeedPath string `yaml:"seed_path"`

	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		DBPort:         5432,
		Store:          StoreSQLite,
		StorePath:      "goalmap.db",
		Addr:           ":8080",
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

// Load starts from Default, applies the YAML file named by GOALMAP_CONFIG if
// set, then any environment variables that are present. Callers validate
// after applying their own flags.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("GOALMAP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString(&c.DBHost, "DB_HOST")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASSWORD")
	setString(&c.DBName, "DB_NAME")

	// Unparseable DB_PORT keeps the current value.
	if port, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil {
		c.DBPort = port
	}

	setString(&c.Store, "GOALMAP_STORE")
	setString(&c.StorePath, "GOALMAP_STORE_PATH")
	setString(&c.Addr, "GOALMAP_ADDR")
	setString(&c.SeedPath, "GOALMAP_SEED")
	setString(&c.LogLevel, "GOALMAP_LOG_LEVEL")

	if v := os.Getenv("GOALMAP_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StorePostgres:
	case StoreFile, StoreSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("store %q needs a store_path", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel onto slog.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
