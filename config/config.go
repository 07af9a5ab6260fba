package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerAddr  string        `toml:"server_addr" yaml:"server_addr"`
	DBDriver    string        `toml:"db_driver" yaml:"db_driver"`
	DatabaseDSN string        `toml:"database_dsn" yaml:"database_dsn"`
	JWTSecret   string        `toml:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL    time.Duration `toml:"token_ttl" yaml:"token_ttl"`
	UploadDir   string        `toml:"upload_dir" yaml:"upload_dir"`
	CORSOrigins []string      `toml:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	LogLevel    string        `toml:"log_level" yaml:"log_level"`
	LogFormat   string        `toml:"log_format" yaml:"log_format"`
	SearchRate  float64       `toml:"search_rate" yaml:"search_rate"`
	SearchBurst int           `toml:"search_burst" yaml:"search_burst"`
}

func Default() *Config {
	return &Config{
		ServerAddr:  ":8080",
		DBDriver:    "mysql",
		DatabaseDSN: "root:root@tcp(localhost:3306)/todoshare?charset=utf8mb4&parseTime=True&loc=Local",
		JWTSecret:   "todoshare-secret-key-change-in-production",
		TokenTTL:    7 * 24 * time.Hour,
		UploadDir:   "./uploads",
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		LogLevel:    "info",
		LogFormat:   "text",
		SearchRate:  2,
		SearchBurst: 5,
	}
}

// Load builds the configuration from defaults, a .env file in the working
// directory, the optional config file at path (.toml, .yaml or .yml) and
// finally environment variables, each layer overriding the previous one.
func Load(path string) (*Config, error) {
	cfg := Default()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("TODOSHARE_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddr = ":" + port
	}
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", cfg.DatabaseDSN))
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("SEARCH_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_RATE: %w", err)
		}
		cfg.SearchRate = r
	}
	if v := os.Getenv("SEARCH_BURST"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SEARCH_BURST: %w", err)
		}
		cfg.SearchBurst = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "memory":
	default:
		return fmt.Errorf("db_driver must be mysql, postgres or memory, got %q", c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DatabaseDSN == "" {
		return fmt.Errorf("database_dsn is required for %s", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
