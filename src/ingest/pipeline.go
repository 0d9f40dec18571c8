package ingest

import (
	"context"
	"fmt"
	"net/url"

	"energy-telemetry-pipeline/src/logger"
	"energy-telemetry-pipeline/src/metrics"
	"energy-telemetry-pipeline/src/records"
	"energy-telemetry-pipeline/src/types"

	"go.uber.org/zap"
)

type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

type RecordWriter interface {
	WriteRecords(ctx context.Context, records []types.EnergyRecord) (int, error)
}

type Notifier interface {
	Publish(ctx context.Context, notification types.AnomalyNotification) error
}

// LiveFeed receives a copy of every alert after a batch succeeds. It cannot
// fail the batch.
type LiveFeed interface {
	Broadcast(ctx context.Context, notifications []types.AnomalyNotification)
}

type MetricsPusher interface {
	Push() error
}

// Pipeline turns one uploaded batch file into stored records and anomaly
// alerts. It keeps no state between invocations and never retries: a failed
// batch is returned to the caller, whose infrastructure owns redelivery.
type Pipeline struct {
	fetcher  ObjectFetcher
	writer   RecordWriter
	notifier Notifier
	feed     LiveFeed
	metrics  *metrics.IngestMetrics
	pusher   MetricsPusher
	log      *zap.Logger
}

type Option func(*Pipeline)

func WithFeed(feed LiveFeed) Option {
	return func(p *Pipeline) { p.feed = feed }
}

func WithMetrics(m *metrics.IngestMetrics, pusher MetricsPusher) Option {
	return func(p *Pipeline) {
		p.metrics = m
		p.pusher = pusher
	}
}

func NewPipeline(fetcher ObjectFetcher, writer RecordWriter, notifier Notifier, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{fetcher: fetcher, writer: writer, notifier: notifier, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process ingests s3://bucket/key. The key is expected in its event form,
// percent-encoded with '+' for spaces.
func (p *Pipeline) Process(ctx context.Context, bucket, key string) (types.IngestionOutcome, error) {
	return p.process(ctx, logger.WithInvocation(ctx, p.log), bucket, key)
}

func (p *Pipeline) process(ctx context.Context, log *zap.Logger, bucket, rawKey string) (outcome types.IngestionOutcome, err error) {
	outcome = types.IngestionOutcome{Bucket: bucket, Key: rawKey, Status: types.BatchFailed}

	defer func() {
		if p.metrics != nil {
			p.metrics.Observe(outcome)
		}
	}()

	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return outcome, &types.SourceFetchError{Bucket: bucket, Key: rawKey, Err: fmt.Errorf("undecodable key: %w", err)}
	}
	outcome.Key = key

	log = log.With(zap.String("bucket", bucket), zap.String("key", key))
	log.Info("processing file")

	content, err := p.fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return outcome, err
	}

	raws, err := records.ParseBatch(content)
	if err != nil {
		return outcome, err
	}

	// Every record is validated before anything is written, so an invalid
	// record leaves the store untouched.
	normalized, err := records.NormalizeBatch(raws)
	if err != nil {
		return outcome, err
	}

	var notifications []types.AnomalyNotification
	for _, record := range normalized {
		if record.Anomaly {
			log.Info("anomaly detected", zap.String("site_id", record.SiteID), zap.String("timestamp", record.Timestamp))
			notifications = append(notifications, types.NewAnomalyNotification(record, bucket, key))
		}
	}
	outcome.Processed = len(normalized)
	outcome.Anomalies = len(notifications)

	written, err := p.writer.WriteRecords(ctx, normalized)
	outcome.Written = written
	if err != nil {
		return outcome, err
	}

	for _, notification := range notifications {
		if err := p.notifier.Publish(ctx, notification); err != nil {
			return outcome, err
		}
		outcome.Notified++
	}

	if p.feed != nil {
		p.feed.Broadcast(ctx, notifications)
	}

	outcome.Status = types.BatchSucceeded
	log.Info("file processed",
		zap.Int("processed", outcome.Processed),
		zap.Int("anomalies", outcome.Anomalies),
		zap.Int("written", outcome.Written))

	return outcome, nil
}
