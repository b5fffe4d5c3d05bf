package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/google/uuid"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// DynamoDBStore implements Store using AWS DynamoDB. All collections share a
// single table keyed by (collection, id).
type DynamoDBStore struct {
	client    *dynamodb.DynamoDB
	tableName string
}

// NewDynamoDBStore creates a new DynamoDB store instance
func NewDynamoDBStore(cfg config.StorageConfig) (*DynamoDBStore, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// For local testing with DynamoDB Local
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	store := &DynamoDBStore{
		client:    dynamodb.New(sess),
		tableName: cfg.TableName,
	}

	// Create table if it doesn't exist (for local testing)
	if err := store.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure table exists: %w", err)
	}

	return store, nil
}

// ensureTable creates the DynamoDB table if it doesn't exist
func (d *DynamoDBStore) ensureTable() error {
	_, err := d.client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	if err == nil {
		return nil // Table already exists
	}

	input := &dynamodb.CreateTableInput{
		TableName: aws.String(d.tableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("collection"),
				KeyType:       aws.String("HASH"),
			},
			{
				AttributeName: aws.String("id"),
				KeyType:       aws.String("RANGE"),
			},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("collection"),
				AttributeType: aws.String("S"),
			},
			{
				AttributeName: aws.String("id"),
				AttributeType: aws.String("S"),
			},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}

	if _, err := d.client.CreateTable(input); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return d.client.WaitUntilTableExists(&dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
}

func (d *DynamoDBStore) itemKey(collection, id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"collection": {S: aws.String(collection)},
		"id":         {S: aws.String(id)},
	}
}

// Put fully replaces the item under (collection, id).
func (d *DynamoDBStore) Put(ctx context.Context, collection, id string, doc any) error {
	item, err := dynamodbattribute.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}
	item["collection"] = &dynamodb.AttributeValue{S: aws.String(collection)}
	item["id"] = &dynamodb.AttributeValue{S: aws.String(id)}

	_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Add inserts the document under a generated id and returns the id.
func (d *DynamoDBStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := d.Put(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Get unmarshals the item under (collection, id) into out.
func (d *DynamoDBStore) Get(ctx context.Context, collection, id string, out any) error {
	res, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.itemKey(collection, id),
	})
	if err != nil {
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if res.Item == nil {
		return ErrNotFound
	}
	if err := dynamodbattribute.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update sets only the named fields on an existing item.
func (d *DynamoDBStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	names := map[string]*string{}
	values := map[string]*dynamodb.AttributeValue{}
	var sets []string

	i := 0
	for k, v := range fields {
		av, err := dynamodbattribute.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal field %q: %w", k, err)
		}
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		names[nameKey] = aws.String(k)
		values[valueKey] = av
		sets = append(sets, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}

	_, err := d.client.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       d.itemKey(collection, id),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close is a no-op for DynamoDB (stateless HTTP client).
func (d *DynamoDBStore) Close() error {
	return nil
}
