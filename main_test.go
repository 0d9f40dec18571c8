package main

import (
	"context"
	"encoding/json"
	"testing"

	"energy-telemetry-pipeline/src/api"
	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyReader struct{}

func (emptyReader) QueryBySite(ctx context.Context, siteID, start, end string) ([]types.EnergyRecord, error) {
	return []types.EnergyRecord{}, nil
}

func (emptyReader) QueryAnomalies(ctx context.Context, siteID string) ([]types.EnergyRecord, error) {
	return []types.EnergyRecord{}, nil
}

func (emptyReader) ScanSiteFlags(ctx context.Context) ([]types.SiteFlag, error) {
	return nil, nil
}

func TestHandleRoutesHTTPEvents(t *testing.T) {
	a := &app{queries: api.NewService(emptyReader{}, zap.NewNop())}

	payload := `{"version":"2.0","routeKey":"GET /summary","rawPath":"/summary","requestContext":{"http":{"method":"GET","path":"/summary"}}}`
	result, err := a.handle(context.Background(), json.RawMessage(payload))

	require.NoError(t, err)
	resp, ok := result.(events.APIGatewayV2HTTPResponse)
	require.True(t, ok)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"total_records":0,"total_anomalies":0,"total_sites":0,"site_anomaly_distribution":{}}`, resp.Body)
}

func TestHandleWebSocketWithoutFeed(t *testing.T) {
	a := &app{}

	result, err := a.handle(context.Background(), json.RawMessage(`{"requestContext":{"routeKey":"$connect","eventType":"CONNECT","connectionId":"abc="}}`))

	require.NoError(t, err)
	assert.Equal(t, 404, result.(events.APIGatewayProxyResponse).StatusCode)
}

func TestHandleRejectsUnknownEvents(t *testing.T) {
	a := &app{}

	_, err := a.handle(context.Background(), json.RawMessage(`{"hello":"world"}`))

	assert.Error(t, err)
}
