package dynamodb

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/rampart/rampart/storage"
)

// DynamoDB stores key-value pairs in an AWS DynamoDB table.
//
// Keys follow the same layout as the bolt backend: the part up to the last /
// is used as the partition key and the remainder as the sort key. A prefix
// scan queries a single partition.
type DynamoDB struct {
	Client    dynamodbiface.ClientAPI
	TableName string
}

// New creates a new DynamoDB backend.
func New(cfg aws.Config, tableName string) *DynamoDB {
	return &DynamoDB{
		Client:    dynamodb.New(cfg),
		TableName: tableName,
	}
}

// CreateTable creates the DynamoDB table.
func (d *DynamoDB) CreateTable(ctx context.Context, rcu, wcu int64) error {
	_, err := d.Client.CreateTableRequest(&dynamodb.CreateTableInput{
		TableName: aws.String(d.TableName),
		AttributeDefinitions: []dynamodb.AttributeDefinition{
			{AttributeName: aws.String("Bucket"), AttributeType: dynamodb.ScalarAttributeTypeS},
			{AttributeName: aws.String("Key"), AttributeType: dynamodb.ScalarAttributeTypeS},
		},
		KeySchema: []dynamodb.KeySchemaElement{
			{AttributeName: aws.String("Bucket"), KeyType: dynamodb.KeyTypeHash},
			{AttributeName: aws.String("Key"), KeyType: dynamodb.KeyTypeRange},
		},
		ProvisionedThroughput: &dynamodb.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(rcu),
			WriteCapacityUnits: aws.Int64(wcu),
		},
	}).Send(ctx)
	if err != nil {
		return err
	}
	return nil
}

// Put creates or updates a value.
func (d *DynamoDB) Put(ctx context.Context, key string, value []byte) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return errors.Wrap(err, "get bucket name")
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(d.TableName),
		Item: map[string]dynamodb.AttributeValue{
			"Bucket": {S: aws.String(bucket)},
			"Key":    {S: aws.String(k)},
			"Value":  {B: value},
		},
	}
	if _, err := d.Client.PutItemRequest(input).Send(ctx); err != nil {
		return errors.Wrap(err, "dynamodb put")
	}
	return nil
}

// Get returns a single value. Returns storage.ErrNotFound if the key does
// not exist.
func (d *DynamoDB) Get(ctx context.Context, key string) ([]byte, error) {
	bucket, k, err := splitKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "get bucket name")
	}
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(d.TableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]dynamodb.AttributeValue{
			"Bucket": {S: aws.String(bucket)},
			"Key":    {S: aws.String(k)},
		},
	}
	resp, err := d.Client.GetItemRequest(input).Send(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "dynamodb get")
	}
	if len(resp.GetItemOutput.Item) == 0 {
		return nil, storage.ErrNotFound
	}
	return resp.GetItemOutput.Item["Value"].B, nil
}

// Delete deletes a key. Returns storage.ErrNotFound if the key does not
// exist.
func (d *DynamoDB) Delete(ctx context.Context, key string) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return errors.Wrap(err, "get bucket name")
	}
	input := &dynamodb.DeleteItemInput{
		TableName:    aws.String(d.TableName),
		ReturnValues: dynamodb.ReturnValueAllOld,
		Key: map[string]dynamodb.AttributeValue{
			"Bucket": {S: aws.String(bucket)},
			"Key":    {S: aws.String(k)},
		},
	}
	resp, err := d.Client.DeleteItemRequest(input).Send(ctx)
	if err != nil {
		return errors.Wrap(err, "dynamodb delete")
	}
	if len(resp.DeleteItemOutput.Attributes) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Scan returns all values in the partition matching the prefix.
//
// Note: the prefix must match a partition, that is, the key up to the last /
// character.
func (d *DynamoDB) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if strings.HasSuffix(prefix, "/") {
		return nil, errors.New("prefix should not contain trailing /")
	}
	input := &dynamodb.QueryInput{
		TableName:              aws.String(d.TableName),
		ConsistentRead:         aws.Bool(true),
		KeyConditionExpression: aws.String("#bucket = :bucket"),
		ExpressionAttributeNames: map[string]string{
			"#bucket": "Bucket",
		},
		ExpressionAttributeValues: map[string]dynamodb.AttributeValue{
			":bucket": {S: aws.String(prefix)},
		},
	}
	resp, err := d.Client.QueryRequest(input).Send(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "dynamodb query")
	}
	ret := make(map[string][]byte, len(resp.QueryOutput.Items))
	for _, item := range resp.QueryOutput.Items {
		key := prefix + "/" + aws.StringValue(item["Key"].S)
		ret[key] = item["Value"].B
	}
	return ret, nil
}

// splitKey returns the partition and sort key for a user specified key.
// Anything before the last / is the partition, anything after it the sort
// key. Returns an error if the input does not contain a slash.
func splitKey(input string) (bucket, key string, err error) {
	if strings.HasPrefix(input, "/") {
		return "", "", errors.New("input cannot start with a slash")
	}
	if strings.HasSuffix(input, "/") {
		return "", "", errors.New("input cannot end with a slash")
	}
	slash := strings.LastIndex(input, "/")
	if slash == -1 {
		return "", "", errors.New("input does not contain a slash")
	}
	return input[:slash], input[slash+1:], nil
}
