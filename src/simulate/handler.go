package simulate

import (
	"context"
	"fmt"

	"energy-telemetry-pipeline/src/logger"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type Uploader interface {
	Upload(ctx context.Context, bucket, key string, body []byte) error
}

// Simulator uploads one generated batch per scheduled invocation.
type Simulator struct {
	generator *Generator
	uploader  Uploader
	bucket    string
	log       *zap.Logger
}

func NewSimulator(generator *Generator, uploader Uploader, bucket string, log *zap.Logger) *Simulator {
	return &Simulator{generator: generator, uploader: uploader, bucket: bucket, log: log}
}

// Handler returns the uploaded key. An upload failure fails the invocation.
func (s *Simulator) Handler(ctx context.Context, event events.CloudWatchEvent) (string, error) {
	log := logger.WithInvocation(ctx, s.log)
	log.Info("generating data", zap.Int("sites", len(s.generator.sites)))

	now := s.generator.now()
	readings := s.generator.Generate(now)
	body, err := Encode(readings)
	if err != nil {
		return "", fmt.Errorf("failed to encode readings: %w", err)
	}

	key := ObjectKey(now)
	log.Info("uploading records", zap.Int("records", len(readings)), zap.String("bucket", s.bucket), zap.String("key", key))

	if err := s.uploader.Upload(ctx, s.bucket, key, body); err != nil {
		log.Error("error uploading file", zap.Error(err))
		return "", err
	}

	log.Info("upload successful", zap.String("key", key))
	return key, nil
}
