package notify

import (
	"context"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
)

// Publisher sends anomaly alerts to one SNS topic.
type Publisher struct {
	client   snsiface.SNSAPI
	topicARN string
}

func NewPublisher(client snsiface.SNSAPI, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

// Publish sends one alert. SNS delivery is at-least-once and the pipeline may
// be re-run for the same file, so subscribers must tolerate duplicates.
func (p *Publisher) Publish(ctx context.Context, notification types.AnomalyNotification) error {
	_, err := p.client.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(notification.Subject()),
		Message:  aws.String(notification.Body()),
		MessageAttributes: map[string]*sns.MessageAttributeValue{
			"site_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(notification.SiteID),
			},
		},
	})
	if err != nil {
		return &types.NotificationError{SiteID: notification.SiteID, Timestamp: notification.Timestamp, Err: err}
	}

	return nil
}
