package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi/apigatewaymanagementapiiface"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConnectionTable struct {
	dynamodbiface.DynamoDBAPI
	ids     []string
	deleted []string
	scanErr error
	putErr  error
}

func (f *fakeConnectionTable) ScanPagesWithContext(ctx aws.Context, input *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, opts ...request.Option) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	items := make([]map[string]*dynamodb.AttributeValue, 0, len(f.ids))
	for _, id := range f.ids {
		items = append(items, map[string]*dynamodb.AttributeValue{"connectionId": {S: aws.String(id)}})
	}
	fn(&dynamodb.ScanOutput{Items: items}, true)
	return nil
}

func (f *fakeConnectionTable) PutItemWithContext(ctx aws.Context, input *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.ids = append(f.ids, aws.StringValue(input.Item["connectionId"].S))
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeConnectionTable) DeleteItemWithContext(ctx aws.Context, input *dynamodb.DeleteItemInput, opts ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	f.deleted = append(f.deleted, aws.StringValue(input.Key["connectionId"].S))
	return &dynamodb.DeleteItemOutput{}, nil
}

type fakeManagementAPI struct {
	apigatewaymanagementapiiface.ApiGatewayManagementApiAPI
	posts map[string][][]byte
	gone  map[string]bool
	fail  map[string]bool
}

func (f *fakeManagementAPI) PostToConnectionWithContext(ctx aws.Context, input *apigatewaymanagementapi.PostToConnectionInput, opts ...request.Option) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	id := aws.StringValue(input.ConnectionId)
	if f.gone[id] {
		return nil, awserr.New(apigatewaymanagementapi.ErrCodeGoneException, "connection is gone", nil)
	}
	if f.fail[id] {
		return nil, errors.New("throttled")
	}
	if f.posts == nil {
		f.posts = map[string][][]byte{}
	}
	f.posts[id] = append(f.posts[id], input.Data)
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func newTestFeed(table *fakeConnectionTable, api *fakeManagementAPI) *Feed {
	return NewFeed(NewConnections(table, "WebSocketConnections"), api, zap.NewNop())
}

func TestManageStoresAndDeletesConnections(t *testing.T) {
	table := &fakeConnectionTable{}
	feed := newTestFeed(table, &fakeManagementAPI{})
	ctx := context.Background()

	connect := events.APIGatewayWebsocketProxyRequest{}
	connect.RequestContext.RouteKey = "$connect"
	connect.RequestContext.ConnectionID = "abc="

	resp, err := feed.Manage(ctx, connect)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"abc="}, table.ids)

	disconnect := connect
	disconnect.RequestContext.RouteKey = "$disconnect"

	resp, err = feed.Manage(ctx, disconnect)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"abc="}, table.deleted)
}

func TestManageRejectsUnknownRoute(t *testing.T) {
	feed := newTestFeed(&fakeConnectionTable{}, &fakeManagementAPI{})

	req := events.APIGatewayWebsocketProxyRequest{}
	req.RequestContext.RouteKey = "sendMessage"

	resp, err := feed.Manage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestManageConnectFailureReturns500(t *testing.T) {
	feed := newTestFeed(&fakeConnectionTable{putErr: errors.New("table missing")}, &fakeManagementAPI{})

	req := events.APIGatewayWebsocketProxyRequest{}
	req.RequestContext.RouteKey = "$connect"
	req.RequestContext.ConnectionID = "abc="

	resp, err := feed.Manage(context.Background(), req)
	assert.Error(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestBroadcastPostsToLiveConnectionsAndDropsGoneOnes(t *testing.T) {
	table := &fakeConnectionTable{ids: []string{"a", "gone", "flaky"}}
	api := &fakeManagementAPI{gone: map[string]bool{"gone": true}, fail: map[string]bool{"flaky": true}}
	feed := newTestFeed(table, api)

	notifications := []types.AnomalyNotification{
		{SiteID: "s1", Timestamp: "T2", Generated: decimal.NewFromInt(-5), Consumed: decimal.NewFromInt(10)},
		{SiteID: "s2", Timestamp: "T9", Generated: decimal.NewFromInt(3), Consumed: decimal.NewFromInt(-1)},
	}

	feed.Broadcast(context.Background(), notifications)

	require.Len(t, api.posts["a"], 2)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(api.posts["a"][0], &decoded))
	assert.Equal(t, "s1", decoded["site_id"])
	assert.Equal(t, []string{"gone"}, table.deleted, "gone connection is removed once")
}

func TestBroadcastSurvivesScanFailure(t *testing.T) {
	api := &fakeManagementAPI{}
	feed := newTestFeed(&fakeConnectionTable{scanErr: errors.New("denied")}, api)

	feed.Broadcast(context.Background(), []types.AnomalyNotification{{SiteID: "s1"}})

	assert.Empty(t, api.posts)
}
