package websocket

import (
	"context"

	"energy-telemetry-pipeline/src/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi/apigatewaymanagementapiiface"
	"go.uber.org/zap"
)

// Feed pushes anomaly alerts to connected dashboards.
type Feed struct {
	connections *Connections
	api         apigatewaymanagementapiiface.ApiGatewayManagementApiAPI
	log         *zap.Logger
}

func NewFeed(connections *Connections, api apigatewaymanagementapiiface.ApiGatewayManagementApiAPI, log *zap.Logger) *Feed {
	return &Feed{connections: connections, api: api, log: log}
}

// Manage handles the $connect and $disconnect routes.
func (f *Feed) Manage(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := logger.WithInvocation(ctx, f.log)
	connectionID := req.RequestContext.ConnectionID

	switch req.RequestContext.RouteKey {
	case "$connect":
		log.Info("new connection", zap.String("connection_id", connectionID))
		if err := f.connections.Store(ctx, connectionID); err != nil {
			return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Failed to store connection"}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil

	case "$disconnect":
		log.Info("disconnected", zap.String("connection_id", connectionID))
		if err := f.connections.Delete(ctx, connectionID); err != nil {
			return events.APIGatewayProxyResponse{StatusCode: 500, Body: "Failed to delete connection"}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 200}, nil

	default:
		return events.APIGatewayProxyResponse{StatusCode: 400, Body: "Invalid request"}, nil
	}
}
