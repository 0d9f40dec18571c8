package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

type EventType string

const (
	S3Upload  EventType = "s3"
	WebSocket EventType = "websocket"
	HTTP      EventType = "http"
	Schedule  EventType = "schedule"
)

// DetectEventType inspects a raw Lambda payload and reports which source sent it.
func DetectEventType(event json.RawMessage) (EventType, error) {
	// Try parsing as an S3 notification
	var s3Event events.S3Event
	if err := json.Unmarshal(event, &s3Event); err == nil {
		if len(s3Event.Records) > 0 && s3Event.Records[0].EventSource == "aws:s3" {
			return S3Upload, nil
		}
	}

	// Try parsing as an API Gateway WebSocket event
	var websocketEvent events.APIGatewayWebsocketProxyRequest
	if err := json.Unmarshal(event, &websocketEvent); err == nil {
		if websocketEvent.RequestContext.EventType != "" {
			return WebSocket, nil
		}
	}

	// Try parsing as an API Gateway HTTP API request
	var httpEvent events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &httpEvent); err == nil {
		if httpEvent.RouteKey != "" && httpEvent.RequestContext.HTTP.Method != "" {
			return HTTP, nil
		}
	}

	// Try parsing as an EventBridge schedule
	var scheduled events.CloudWatchEvent
	if err := json.Unmarshal(event, &scheduled); err == nil {
		if scheduled.Source == "aws.events" && scheduled.DetailType == "Scheduled Event" {
			return Schedule, nil
		}
	}

	return "", fmt.Errorf("unknown event type")
}
