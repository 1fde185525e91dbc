package dal

import (
	"context"
	"fmt"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// Storage drivers accepted by storage_driver
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverDynamoDB = "dynamodb"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// NewCollectionStore builds the store selected by cfg.StorageDriver
func NewCollectionStore(ctx context.Context, cfg *models.Config, log logger.Logger) (CollectionStoreInterface, error) {
	switch cfg.StorageDriver {
	case DriverFile, "":
		return NewFileStore(cfg.StoragePath), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverDynamoDB:
		return NewDynamoDBClient(cfg, log)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log), nil
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
