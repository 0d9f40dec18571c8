package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"energy-telemetry-pipeline/src/api"
	"energy-telemetry-pipeline/src/config"
	"energy-telemetry-pipeline/src/dispatch"
	"energy-telemetry-pipeline/src/dynamo"
	"energy-telemetry-pipeline/src/ingest"
	"energy-telemetry-pipeline/src/logger"
	"energy-telemetry-pipeline/src/metrics"
	"energy-telemetry-pipeline/src/notify"
	"energy-telemetry-pipeline/src/simulate"
	"energy-telemetry-pipeline/src/storage"
	"energy-telemetry-pipeline/src/websocket"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sns"
	"go.uber.org/zap"
)

// app holds the handlers built once per Lambda process.
type app struct {
	pipeline  *ingest.Pipeline
	queries   *api.Service
	simulator *simulate.Simulator
	feed      *websocket.Feed
}

func newApp(cfg *config.Config, log *zap.Logger) *app {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.EndpointURL != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.EndpointURL).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(awsCfg))

	dynamoClient := dynamo.NewClient(sess)
	store := dynamo.NewStore(dynamoClient, cfg.TableName)

	ingestMetrics := metrics.NewIngestMetrics()
	var pusher ingest.MetricsPusher
	if cfg.PushGatewayURL != "" {
		pusher = metrics.NewPusher(cfg.PushGatewayURL, "energy_ingest", ingestMetrics.Registry)
	}
	opts := []ingest.Option{ingest.WithMetrics(ingestMetrics, pusher)}

	var feed *websocket.Feed
	if cfg.LiveFeedEnabled() {
		connections := websocket.NewConnections(dynamoClient, cfg.ConnectionsTableName)
		feed = websocket.NewFeed(connections, websocket.NewManagementClient(sess, cfg.WebSocketEndpoint), log)
		opts = append(opts, ingest.WithFeed(feed))
	}

	pipeline := ingest.NewPipeline(
		storage.NewObjects(s3.New(sess)),
		store,
		notify.NewPublisher(sns.New(sess), cfg.TopicARN),
		log,
		opts...,
	)

	generator := simulate.NewGenerator(cfg.GeneratorSites, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())), time.Now)
	simulator := simulate.NewSimulator(generator, storage.NewUploader(s3manager.NewUploader(sess)), cfg.BucketName, log)

	return &app{
		pipeline:  pipeline,
		queries:   api.NewService(store, log),
		simulator: simulator,
		feed:      feed,
	}
}

// handle routes the raw event to the handler for its source.
func (a *app) handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	eventType, err := dispatch.DetectEventType(event)
	if err != nil {
		return nil, err
	}

	switch eventType {
	case dispatch.S3Upload:
		var s3Event events.S3Event
		if err := json.Unmarshal(event, &s3Event); err != nil {
			return nil, fmt.Errorf("error unmarshalling S3 event: %w", err)
		}
		return a.pipeline.Handler(ctx, s3Event)

	case dispatch.HTTP:
		var httpEvent events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(event, &httpEvent); err != nil {
			return nil, fmt.Errorf("error unmarshalling HTTP event: %w", err)
		}
		return a.queries.HandleHTTP(ctx, httpEvent)

	case dispatch.WebSocket:
		if a.feed == nil {
			return events.APIGatewayProxyResponse{StatusCode: 404, Body: "Live feed not configured"}, nil
		}
		var websocketEvent events.APIGatewayWebsocketProxyRequest
		if err := json.Unmarshal(event, &websocketEvent); err != nil {
			return nil, fmt.Errorf("error unmarshalling WebSocket event: %w", err)
		}
		return a.feed.Manage(ctx, websocketEvent)

	case dispatch.Schedule:
		var scheduled events.CloudWatchEvent
		if err := json.Unmarshal(event, &scheduled); err != nil {
			return nil, fmt.Errorf("error unmarshalling scheduled event: %w", err)
		}
		return a.simulator.Handler(ctx, scheduled)

	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	lambda.Start(newApp(cfg, log).handle)
}
