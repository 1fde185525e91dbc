package dal

import (
	"context"
	"fmt"
	"time"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// collectionItem is the DynamoDB row holding one collection blob
type collectionItem struct {
	Collection string `dynamodbav:"collection"`
	Payload    string `dynamodbav:"payload"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

type DynamoDBClient struct {
	client    DynamoDBAPI
	tableName string
	logger    logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// local DynamoDB
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	log.Info("✅ DynamoDB client initialized successfully")
	return NewDynamoDBClientWithAPI(client, cfg.CollectionsTable(), log), nil
}

// NewDynamoDBClientWithAPI wraps an existing DynamoDB API implementation
func NewDynamoDBClientWithAPI(api DynamoDBAPI, tableName string, log logger.Logger) *DynamoDBClient {
	return &DynamoDBClient{
		client:    api,
		tableName: tableName,
		logger:    log,
	}
}

// Get retrieves a collection blob
func (db *DynamoDBClient) Get(ctx context.Context, key string) ([]byte, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(db.tableName),
		Key: map[string]types.AttributeValue{
			"collection": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get collection %s: %v", key, err)
		return nil, fmt.Errorf("dynamodb get %s: %w", key, err)
	}

	if output.Item == nil {
		return nil, ErrCollectionNotFound
	}

	var item collectionItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return []byte(item.Payload), nil
}

// Put overwrites a collection blob
func (db *DynamoDBClient) Put(ctx context.Context, key string, payload []byte) error {
	av, err := attributevalue.MarshalMap(collectionItem{
		Collection: key,
		Payload:    string(payload),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(db.tableName),
		Item:      av,
	}

	if _, err := db.client.PutItem(ctx, input); err != nil {
		db.logger.Errorf("Failed to put collection %s: %v", key, err)
		return fmt.Errorf("dynamodb put %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no connections to release
func (db *DynamoDBClient) Close() error {
	return nil
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}
