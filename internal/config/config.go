package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config 服务运行所需的全部配置，由 .env 与环境变量填充
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	SessionSecret string
	CORSOrigins   []string
	MaxUploadMB   int64
	Database      Database
	Media         Media

	// InterestUnique 为 true 时同一买家对同一帖子只能表达一次意向
	InterestUnique bool
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// Media 上传图片的本地存储位置和对外访问前缀
type Media struct {
	Root string
	URL  string
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return d.DSNFor(d.Name)
}

// DSNFor builds a key/value DSN pointing at another database on the same server.
func (d Database) DSNFor(dbName string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, dbName, d.Port, d.SSLMode, d.TimeZone)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env 缺失时直接使用系统环境变量
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		Env:           getenv("APP_ENV", EnvDevelopment),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASS", "postgres"),
			Name:     getenv("DB_NAME", "sellboard"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
			TimeZone: getenv("DB_TIMEZONE", "UTC"),
		},
		Media: Media{
			Root: getenv("MEDIA_ROOT", "./media"),
			URL:  strings.TrimSuffix(getenv("MEDIA_URL", "/media"), "/"),
		},
	}

	var err error
	if cfg.InterestUnique, err = getbool("INTEREST_UNIQUE", false); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = getint("MAX_UPLOAD_MB", 10); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.IsProduction() && cfg.SessionSecret == "secret_key_change_me" {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getint(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return i, nil
}
