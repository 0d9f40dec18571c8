package websocket

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewaymanagementapi"
)

// NewManagementClient targets the WebSocket API's connection endpoint,
// e.g. https://{api-id}.execute-api.{region}.amazonaws.com/{stage}.
func NewManagementClient(sess *session.Session, endpoint string) *apigatewaymanagementapi.ApiGatewayManagementApi {
	return apigatewaymanagementapi.New(sess, aws.NewConfig().WithEndpoint(endpoint))
}
