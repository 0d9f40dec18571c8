package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
	"go.uber.org/zap"
)

// Broadcast posts each notification to every open connection. Delivery is
// best-effort: failures are logged and stale connections are removed.
func (f *Feed) Broadcast(ctx context.Context, notifications []types.AnomalyNotification) {
	if len(notifications) == 0 {
		return
	}

	connections, err := f.connections.List(ctx)
	if err != nil {
		f.log.Warn("failed to retrieve connections", zap.Error(err))
		return
	}

	for _, notification := range notifications {
		data, err := json.Marshal(notification)
		if err != nil {
			f.log.Warn("failed to marshal notification", zap.Error(err))
			continue
		}

		connections = f.postToAll(ctx, connections, data)
	}
}

func (f *Feed) postToAll(ctx context.Context, connections []Connection, data []byte) []Connection {
	alive := connections[:0]

	for _, conn := range connections {
		_, err := f.api.PostToConnectionWithContext(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(conn.ConnectionID),
			Data:         data,
		})

		if isGone(err) {
			if err := f.connections.Delete(ctx, conn.ConnectionID); err != nil {
				f.log.Warn("failed to remove stale connection", zap.String("connection_id", conn.ConnectionID), zap.Error(err))
			}
			continue
		}

		if err != nil {
			f.log.Warn("failed to post to connection", zap.String("connection_id", conn.ConnectionID), zap.Error(err))
		}

		alive = append(alive, conn)
	}

	return alive
}

func isGone(err error) bool {
	var aerr awserr.Error
	return errors.As(err, &aerr) && aerr.Code() == apigatewaymanagementapi.ErrCodeGoneException
}
