package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env       Environment     `mapstructure:"-"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	API       APIConfig       `mapstructure:"api"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the gorm dialector. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	FilePath        string `mapstructure:"file_path"`
	MigrationsDir   string `mapstructure:"migrations_dir"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	URL      string `mapstructure:"url"`
}

// Enabled reports whether any Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type APIConfig struct {
	PageSize    int      `mapstructure:"page_size"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type RateLimitConfig struct {
	RecipeCreationLimit int           `mapstructure:"recipe_creation_limit"`
	Window              time.Duration `mapstructure:"window"`
}

// secretKeys maps config keys to Docker secret file names. In development and
// production a secret file, when present, overrides the environment.
var secretKeys = map[string]string{
	"database.password":            "db_password",
	"database.user":                "db_user",
	"jwt.secret":                   "jwt_secret",
	"redis.password":               "redis_password",
	"redis.url":                    "redis_url",
	"storage.s3.secret_access_key": "s3_secret_access_key",
	"storage.s3.access_key_id":     "s3_access_key_id",
}

// LoadConfig creates a new Config instance with values from defaults,
// an optional config file, environment variables and secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, env)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env == Development || env == Production {
		loadSecrets(v, secretsDir())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Env = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "foodgram")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.file_path", "foodgram.db")
	v.SetDefault("database.migrations_dir", "migrations")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5)

	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", env == Development)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "media")
	v.SetDefault("storage.local.base_url", "/media")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "foodgram-recipe-images")

	v.SetDefault("api.page_size", 6)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000", "http://frontend:3000"})

	v.SetDefault("rate_limit.recipe_creation_limit", 20)
	v.SetDefault("rate_limit.window", time.Hour)

	if env == Test {
		v.SetDefault("database.driver", "sqlite")
		v.SetDefault("database.file_path", ":memory:")
		v.SetDefault("jwt.secret", "test-secret")
	}
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("database.file_path", "DB_FILE_PATH")
	_ = v.BindEnv("database.migrations_dir", "MIGRATIONS_DIR")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("jwt.ttl", "JWT_TTL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.pretty", "LOG_PRETTY")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.local.base_path", "MEDIA_ROOT")
	_ = v.BindEnv("storage.local.base_url", "MEDIA_URL")
	_ = v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("storage.s3.region", "AWS_REGION")
	_ = v.BindEnv("storage.s3.bucket", "S3_BUCKET_NAME")
	_ = v.BindEnv("storage.s3.access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("storage.s3.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("storage.s3.use_path_style", "S3_USE_PATH_STYLE")
	_ = v.BindEnv("storage.s3.public_url", "S3_PUBLIC_URL")
	_ = v.BindEnv("api.page_size", "PAGE_SIZE")
	_ = v.BindEnv("rate_limit.recipe_creation_limit", "RECIPE_CREATION_LIMIT")
}

// loadSecrets overlays Docker secrets onto the viper instance.
func loadSecrets(v *viper.Viper, dir string) {
	for key, name := range secretKeys {
		if value := readSecretFrom(dir, name); value != "" {
			v.Set(key, value)
		}
	}
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecretFrom reads a Docker secret file, returning "" when it is absent.
func readSecretFrom(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
