package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTables(t *testing.T) {
	input, err := GetTables("telconova_collections")
	require.NoError(t, err)

	assert.Equal(t, "telconova_collections", *input.TableName)
	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "collection", *input.KeySchema[0].AttributeName)
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)
	require.Len(t, input.AttributeDefinitions, 1)
	assert.Equal(t, types.ScalarAttributeTypeS, input.AttributeDefinitions[0].AttributeType)
	assert.Equal(t, int64(5), *input.ProvisionedThroughput.ReadCapacityUnits)
	assert.Empty(t, input.GlobalSecondaryIndexes)
}

func TestGetTablesUnknown(t *testing.T) {
	_, err := GetTables("telconova_users")
	assert.ErrorContains(t, err, "table schema not found for key: users")
}

func TestExtractBaseTableName(t *testing.T) {
	assert.Equal(t, "collections", extractBaseTableName("dev_collections"))
	assert.Equal(t, "collections", extractBaseTableName("collections"))
}

func TestSchemaNames(t *testing.T) {
	assert.Equal(t, []string{"collections"}, SchemaNames())
}
