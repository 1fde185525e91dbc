package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"telconova-dispatch/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

var storageDrivers = map[string]bool{
	"file":     true,
	"memory":   true,
	"dynamodb": true,
	"redis":    true,
	"postgres": true,
}

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	flattenNestedConfig(v)

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Telconova Dispatch")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	v.SetDefault("storage_driver", "file")
	v.SetDefault("storage_path", "./data")
	v.SetDefault("storage_key_prefix", "telconova")

	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("postgres_dsn", "")

	v.SetDefault("remote_api_url", "")
	v.SetDefault("remote_api_timeout", 5*time.Second)
	v.SetDefault("remote_api_max_retries", 2)
	v.SetDefault("remote_cache_dir", "")

	v.SetDefault("ledger_capacity", 50)
	v.SetDefault("ledger_undo_ttl", time.Duration(0))

	v.SetDefault("login_max_attempts", 3)
	v.SetDefault("login_lockout_window", 15*time.Minute)
	v.SetDefault("supervisor_email", "supervisor@example.com")
	v.SetDefault("supervisor_password_hash", "")

	v.SetDefault("worker_status_file", "/tmp/telconova-worker-status.json")
	v.SetDefault("worker_sweep_schedule", "@every 1s")
	v.SetDefault("worker_maintenance_schedule", "@every 1m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("basePath", "/api/v1")
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if !storageDrivers[c.StorageDriver] {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.LedgerCapacity <= 0 {
		return fmt.Errorf("ledger_capacity must be positive, got %d", c.LedgerCapacity)
	}

	if c.LoginMaxAttempts <= 0 {
		return fmt.Errorf("login_max_attempts must be positive, got %d", c.LoginMaxAttempts)
	}

	if c.StorageDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required for the postgres storage driver")
	}

	return nil
}

// nestedKeys maps sections of config.json to flat keys
var nestedKeys = map[string]string{
	"app.name":                       "app_name",
	"app.version":                    "app_version",
	"app.env":                        "app_env",
	"app.host":                       "app_host",
	"app.port":                       "app_port",
	"jwt.secret":                     "jwt_secret",
	"jwt.expires_in":                 "jwt_expires_in",
	"storage.driver":                 "storage_driver",
	"storage.path":                   "storage_path",
	"storage.key_prefix":             "storage_key_prefix",
	"aws.region":                     "aws_region",
	"aws.access_key_id":              "aws_access_key_id",
	"aws.secret_access_key":          "aws_secret_access_key",
	"aws.dynamodb_endpoint":          "dynamodb_endpoint",
	"aws.dynamodb_table_prefix":      "dynamodb_table_prefix",
	"redis.addr":                     "redis_addr",
	"redis.password":                 "redis_password",
	"redis.db":                       "redis_db",
	"postgres.dsn":                   "postgres_dsn",
	"remote_api.url":                 "remote_api_url",
	"remote_api.timeout":             "remote_api_timeout",
	"remote_api.max_retries":         "remote_api_max_retries",
	"remote_api.cache_dir":           "remote_cache_dir",
	"ledger.capacity":                "ledger_capacity",
	"ledger.undo_ttl":                "ledger_undo_ttl",
	"login.max_attempts":             "login_max_attempts",
	"login.lockout_window":           "login_lockout_window",
	"login.supervisor_email":         "supervisor_email",
	"login.supervisor_password_hash": "supervisor_password_hash",
	"worker.status_file":             "worker_status_file",
	"worker.sweep_schedule":          "worker_sweep_schedule",
	"worker.maintenance_schedule":    "worker_maintenance_schedule",
	"logging.level":                  "log_level",
	"logging.format":                 "log_format",
	"cors.origins":                   "cors_origins",
}

// flattenNestedConfig copies nested JSON values to flat keys for easier mapping
func flattenNestedConfig(v *viper.Viper) {
	for nested, flat := range nestedKeys {
		if v.IsSet(nested) {
			v.Set(flat, v.Get(nested))
		}
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
