package ingest

import (
	"context"

	"energy-telemetry-pipeline/src/logger"
	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Handler processes every object in an S3 notification in order. The first
// failed object fails the invocation so that Lambda retries the event and,
// once retries are exhausted, routes it to the dead-letter queue.
func (p *Pipeline) Handler(ctx context.Context, event events.S3Event) ([]types.IngestionOutcome, error) {
	log := logger.WithInvocation(ctx, p.log)
	defer p.pushMetrics(log)

	outcomes := make([]types.IngestionOutcome, 0, len(event.Records))

	for _, record := range event.Records {
		outcome, err := p.process(ctx, log, record.S3.Bucket.Name, record.S3.Object.Key)
		outcomes = append(outcomes, outcome)

		if err != nil {
			log.Error("error processing file",
				zap.String("bucket", outcome.Bucket),
				zap.String("key", outcome.Key),
				zap.Int("written", outcome.Written),
				zap.Error(err))
			return outcomes, err
		}
	}

	return outcomes, nil
}

func (p *Pipeline) pushMetrics(log *zap.Logger) {
	if p.pusher == nil {
		return
	}
	if err := p.pusher.Push(); err != nil {
		log.Warn("failed to push metrics", zap.Error(err))
	}
}
