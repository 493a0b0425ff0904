package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	DSN    string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type SeedConfig struct {
	Enabled        bool   `yaml:"enabled"`
	AdminPassword  string `yaml:"admin_password"`
	WorkerPassword string `yaml:"worker_password"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type ReportsConfig struct {
	FontPath string `yaml:"font_path"` // TTF для кириллицы; пусто = Helvetica
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Seed     SeedConfig     `yaml:"seed"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Reports  ReportsConfig  `yaml:"reports"`
}

// Default returns the configuration used when the file leaves a field empty.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 3001
	cfg.Database = DatabaseConfig{Driver: "sqlite", DSN: "file:taskflow.db?_pragma=foreign_keys(1)"}
	cfg.Auth = AuthConfig{
		JWTSecret:  "your-secret-key-change-this-in-production",
		TokenTTL:   24 * time.Hour,
		BcryptCost: 10,
	}
	cfg.Seed = SeedConfig{Enabled: true, AdminPassword: "admin123", WorkerPassword: "worker123"}
	return cfg
}

// LoadConfig reads the YAML file at path on top of Default and applies
// PORT, JWT_SECRET and DATABASE_URL from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	// пустой файл = просто значения по умолчанию
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, cfg.validate()
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}
