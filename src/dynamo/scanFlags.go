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

// ScanSiteFlags reads site_id and anomaly from every item in the table,
// following pagination to the end. This is a full table scan.
func (s *Store) ScanSiteFlags(ctx context.Context) ([]types.SiteFlag, error) {
	projection := expression.NamesList(expression.Name("site_id"), expression.Name("anomaly"))

	expr, err := expression.NewBuilder().WithProjection(projection).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan projection: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.tableName),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	}

	flags := []types.SiteFlag{}
	var pageErr error

	err = s.client.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var items []flagItem
		if pageErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); pageErr != nil {
			return false
		}

		for _, item := range items {
			flags = append(flags, types.SiteFlag{SiteID: item.SiteID, Anomaly: item.Anomaly})
		}

		return true
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.tableName, err)
	}
	if pageErr != nil {
		return nil, fmt.Errorf("failed to read items from %s: %w", s.tableName, pageErr)
	}

	return flags, nil
}
