// +build integration

package dynamodb

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/defaults"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"
	"github.com/rampart/rampart/storage"
)

// Requires a local DynamoDB:
//
//   docker run -d -p 8000:8000 amazon/dynamodb-local
//   TEST_DYNAMODB_ENDPOINT=http://localhost:8000 go test -tags integration ./storage/dynamodb
func TestDynamoDB_io(t *testing.T) {
	endpoint := os.Getenv("TEST_DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Fatal("TEST_DYNAMODB_ENDPOINT not set")
	}

	cfg := defaults.Config()
	cfg.Region = "local"
	cfg.EndpointResolver = aws.ResolveWithEndpointURL(endpoint)
	cfg.Credentials = aws.NewStaticCredentialsProvider("local", "local", "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddb := New(cfg, "rampart-test")
	if err := ddb.CreateTable(ctx, 1, 1); err != nil {
		t.Log("Maybe DynamoDB local is not running?")
		t.Fatalf("Create table: %v", err)
	}
	defer func() {
		cli := dynamodb.New(cfg)
		_, err := cli.DeleteTableRequest(&dynamodb.DeleteTableInput{
			TableName: aws.String(ddb.TableName),
		}).Send(context.Background())
		if err != nil {
			t.Fatalf("Delete DynamoDB table: %v", err)
		}
	}()

	if _, err := ddb.Get(ctx, "foo/bar"); errors.Cause(err) != storage.ErrNotFound {
		t.Errorf("Get non-existing; want error = %v, got = %v", storage.ErrNotFound, err)
	}

	if err := ddb.Put(ctx, "foo/bar", []byte("baz")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := ddb.Put(ctx, "foo/qux", []byte("123")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := ddb.Get(ctx, "foo/bar")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("baz")) {
		t.Errorf("Get() = %q, want %q", got, "baz")
	}

	scan, err := ddb.Scan(ctx, "foo")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(scan) != 2 {
		t.Errorf("Scan() returned %d items, want 2", len(scan))
	}

	if err := ddb.Delete(ctx, "foo/nonexisting"); errors.Cause(err) != storage.ErrNotFound {
		t.Errorf("Delete non-existing; want error = %v, got = %v", storage.ErrNotFound, err)
	}
	if err := ddb.Delete(ctx, "foo/bar"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := ddb.Get(ctx, "foo/bar"); errors.Cause(err) != storage.ErrNotFound {
		t.Errorf("Get deleted; want error = %v, got = %v", storage.ErrNotFound, err)
	}
}
