package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Storage
	StorageDriver    string `mapstructure:"storage_driver"`
	StoragePath      string `mapstructure:"storage_path"`
	StorageKeyPrefix string `mapstructure:"storage_key_prefix"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Redis
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Postgres
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// Remote API
	RemoteAPIURL        string        `mapstructure:"remote_api_url"`
	RemoteAPITimeout    time.Duration `mapstructure:"remote_api_timeout"`
	RemoteAPIMaxRetries int           `mapstructure:"remote_api_max_retries"`
	RemoteCacheDir      string        `mapstructure:"remote_cache_dir"`

	// Undo ledger
	LedgerCapacity int           `mapstructure:"ledger_capacity"`
	LedgerUndoTTL  time.Duration `mapstructure:"ledger_undo_ttl"`

	// Login lockout
	LoginMaxAttempts       int           `mapstructure:"login_max_attempts"`
	LoginLockoutWindow     time.Duration `mapstructure:"login_lockout_window"`
	SupervisorEmail        string        `mapstructure:"supervisor_email"`
	SupervisorPasswordHash string        `mapstructure:"supervisor_password_hash"`

	// Worker
	WorkerStatusFile          string `mapstructure:"worker_status_file"`
	WorkerSweepSchedule       string `mapstructure:"worker_sweep_schedule"`
	WorkerMaintenanceSchedule string `mapstructure:"worker_maintenance_schedule"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`
}

// CollectionsTable is the DynamoDB table holding catalog collections.
func (c *Config) CollectionsTable() string {
	return c.DynamoDBTablePrefix + "_collections"
}
