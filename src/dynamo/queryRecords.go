package dynamo

import (
	"context"
	"fmt"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"
)

// QueryBySite returns a site's records in timestamp order. The range
// condition applies only when both start and end are given.
func (s *Store) QueryBySite(ctx context.Context, siteID, start, end string) ([]types.EnergyRecord, error) {
	keyCond := expression.Key("site_id").Equal(expression.Value(siteID))
	if start != "" && end != "" {
		keyCond = keyCond.And(expression.Key("timestamp").Between(expression.Value(start), expression.Value(end)))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query for %s: %w", siteID, err)
	}

	return s.query(ctx, expr)
}

// QueryAnomalies returns a site's records flagged as anomalies.
func (s *Store) QueryAnomalies(ctx context.Context, siteID string) ([]types.EnergyRecord, error) {
	keyCond := expression.Key("site_id").Equal(expression.Value(siteID))
	filter := expression.Name("anomaly").Equal(expression.Value(true))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build anomaly query for %s: %w", siteID, err)
	}

	return s.query(ctx, expr)
}

func (s *Store) query(ctx context.Context, expr expression.Expression) ([]types.EnergyRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	records := []types.EnergyRecord{}
	var pageErr error

	err := s.client.QueryPagesWithContext(ctx, input, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		var items []energyItem
		if pageErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); pageErr != nil {
			return false
		}

		for _, item := range items {
			record, err := item.toRecord()
			if err != nil {
				pageErr = err
				return false
			}
			records = append(records, record)
		}

		return true
	})

	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.tableName, err)
	}
	if pageErr != nil {
		return nil, fmt.Errorf("failed to read items from %s: %w", s.tableName, pageErr)
	}

	return records, nil
}
