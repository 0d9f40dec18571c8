package websocket

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// Connection is a live dashboard client stored in DynamoDB.
type Connection struct {
	ConnectionID string `dynamodbav:"connectionId"`
}

type Connections struct {
	db        dynamodbiface.DynamoDBAPI
	tableName string
}

func NewConnections(db dynamodbiface.DynamoDBAPI, tableName string) *Connections {
	return &Connections{db: db, tableName: tableName}
}

func (c *Connections) List(ctx context.Context) ([]Connection, error) {
	var connections []Connection
	var pageErr error

	err := c.db.ScanPagesWithContext(ctx, &dynamodb.ScanInput{TableName: aws.String(c.tableName)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			var items []Connection
			if pageErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); pageErr != nil {
				return false
			}
			connections = append(connections, items...)
			return true
		})

	if err != nil {
		return nil, fmt.Errorf("failed to scan connections: %w", err)
	}
	if pageErr != nil {
		return nil, fmt.Errorf("failed to read connections: %w", pageErr)
	}

	return connections, nil
}

func (c *Connections) Store(ctx context.Context, connectionID string) error {
	item, err := dynamodbattribute.MarshalMap(Connection{ConnectionID: connectionID})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = c.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store connection %s: %w", connectionID, err)
	}

	return nil
}

func (c *Connections) Delete(ctx context.Context, connectionID string) error {
	_, err := c.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key:       map[string]*dynamodb.AttributeValue{"connectionId": {S: aws.String(connectionID)}},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %w", connectionID, err)
	}

	return nil
}
