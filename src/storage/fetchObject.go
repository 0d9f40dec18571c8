package storage

import (
	"context"
	"fmt"
	"io"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Objects reads raw batch files from S3.
type Objects struct {
	client s3iface.S3API
}

func NewObjects(client s3iface.S3API) *Objects {
	return &Objects{client: client}
}

// Fetch downloads a whole object into memory. Batches are small enough that
// no streaming is attempted.
func (o *Objects) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := o.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &types.SourceFetchError{Bucket: bucket, Key: key, Err: fmt.Errorf("failed to download object: %w", err)}
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &types.SourceFetchError{Bucket: bucket, Key: key, Err: fmt.Errorf("failed to read object: %w", err)}
	}

	return content, nil
}
