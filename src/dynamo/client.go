package dynamo

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// Store reads and writes EnergyRecords in one DynamoDB table keyed by
// site_id (partition) and timestamp (sort).
type Store struct {
	client    dynamodbiface.DynamoDBAPI
	tableName string
}

func NewStore(client dynamodbiface.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

func NewClient(sess *session.Session) *dynamodb.DynamoDB {
	return dynamodb.New(sess)
}

func (s *Store) TableName() string {
	return s.tableName
}
