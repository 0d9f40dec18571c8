package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// Uploader writes generated batch files to S3.
type Uploader struct {
	uploader s3manageriface.UploaderAPI
}

func NewUploader(uploader s3manageriface.UploaderAPI) *Uploader {
	return &Uploader{uploader: uploader}
}

func (u *Uploader) Upload(ctx context.Context, bucket, key string, body []byte) error {
	_, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	return nil
}
