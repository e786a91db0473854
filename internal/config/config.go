package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// IsProduction reports whether error details and insecure cookies must be suppressed.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(a.Environment), EnvProduction)
}

type HTTPConfig struct {
	Port           int             `yaml:"port"`
	BasePath       string          `yaml:"base_path"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	AuthRateLimit  AuthRateConfig  `yaml:"auth_rate_limit"`
}

// RateLimitConfig limits authenticated callers per user id.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// AuthRateConfig limits credential endpoints per client IP.
type AuthRateConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type AuthConfig struct {
	AccessSecret       string        `yaml:"access_secret"`
	RefreshSecret      string        `yaml:"refresh_secret"`
	AccessExpiry       time.Duration `yaml:"access_expiry"`
	RefreshExpiry      time.Duration `yaml:"refresh_expiry"`
	Issuer             string        `yaml:"issuer"`
	BcryptCost         int           `yaml:"bcrypt_cost"`
	RefreshCookieName  string        `yaml:"refresh_cookie_name"`
	LoginAttempts      int           `yaml:"login_attempts"`
	LoginAttemptWindow time.Duration `yaml:"login_attempt_window"`
	// AllowAdminSignup lets /auth/register create ADMIN accounts.
	AllowAdminSignup   bool          `yaml:"allow_admin_signup"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; real environment wins over it
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.New("auth access_secret and refresh_secret are required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("auth access_secret and refresh_secret must differ")
	}
	if c.Auth.AccessExpiry >= c.Auth.RefreshExpiry {
		return fmt.Errorf("auth access_expiry (%s) must be shorter than refresh_expiry (%s)",
			c.Auth.AccessExpiry, c.Auth.RefreshExpiry)
	}
	if c.Backup.Enabled && c.Backup.StoragePath == "" {
		return errors.New("backup storage_path is required when backup is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "servicefinder"
	}
	if c.App.Environment == "" {
		c.App.Environment = EnvDevelopment
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.BasePath == "" {
		c.HTTP.BasePath = "/api/v1"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.HTTP.RateLimit.RPS == 0 {
		c.HTTP.RateLimit.RPS = 20
	}
	if c.HTTP.RateLimit.Burst == 0 {
		c.HTTP.RateLimit.Burst = 40
	}
	if c.HTTP.AuthRateLimit.Requests == 0 {
		c.HTTP.AuthRateLimit.Requests = 30
	}
	if c.HTTP.AuthRateLimit.Window == 0 {
		c.HTTP.AuthRateLimit.Window = time.Minute
	}

	if c.Auth.AccessExpiry == 0 {
		c.Auth.AccessExpiry = 15 * time.Minute
	}
	if c.Auth.RefreshExpiry == 0 {
		c.Auth.RefreshExpiry = 7 * 24 * time.Hour
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = c.App.Name
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.RefreshCookieName == "" {
		c.Auth.RefreshCookieName = "refreshToken"
	}
	if c.Auth.LoginAttempts == 0 {
		c.Auth.LoginAttempts = 10
	}
	if c.Auth.LoginAttemptWindow == 0 {
		c.Auth.LoginAttemptWindow = 15 * time.Minute
	}

	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Backup.RetentionDays == 0 {
		c.Backup.RetentionDays = 7
	}
}
