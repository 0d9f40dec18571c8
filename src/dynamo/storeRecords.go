package dynamo

import (
	"context"
	"fmt"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

// MaxBatchWriteItems is the BatchWriteItem request limit.
const MaxBatchWriteItems = 25

// WriteRecords puts every record and returns how many items were confirmed.
// Records sharing a key collapse to the last one, since a single request
// rejects duplicate keys. The first chunk with a failed request or any
// unprocessed item stops the write with a *types.StoreWriteError.
func (s *Store) WriteRecords(ctx context.Context, records []types.EnergyRecord) (int, error) {
	items, err := marshalUnique(records)
	if err != nil {
		return 0, err
	}

	confirmed := 0

	for start := 0; start < len(items); start += MaxBatchWriteItems {
		end := min(start+MaxBatchWriteItems, len(items))
		chunk := items[start:end]

		requests := make([]*dynamodb.WriteRequest, 0, len(chunk))
		for _, item := range chunk {
			requests = append(requests, &dynamodb.WriteRequest{
				PutRequest: &dynamodb.PutRequest{Item: item},
			})
		}

		output, err := s.client.BatchWriteItemWithContext(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]*dynamodb.WriteRequest{s.tableName: requests},
		})

		if err != nil {
			return confirmed, &types.StoreWriteError{
				Confirmed:   confirmed,
				Unconfirmed: len(items) - confirmed,
				Err:         fmt.Errorf("batch write to %s: %w", s.tableName, err),
			}
		}

		unprocessed := len(output.UnprocessedItems[s.tableName])
		confirmed += len(chunk) - unprocessed

		if unprocessed > 0 {
			return confirmed, &types.StoreWriteError{
				Confirmed:   confirmed,
				Unconfirmed: len(items) - confirmed,
				Err:         fmt.Errorf("%d item(s) left unprocessed by %s", unprocessed, s.tableName),
			}
		}
	}

	return confirmed, nil
}

func marshalUnique(records []types.EnergyRecord) ([]map[string]*dynamodb.AttributeValue, error) {
	type key struct{ siteID, timestamp string }

	positions := make(map[key]int, len(records))
	items := make([]map[string]*dynamodb.AttributeValue, 0, len(records))

	for _, record := range records {
		item, err := dynamodbattribute.MarshalMap(toItem(record))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %s/%s: %w", record.SiteID, record.Timestamp, err)
		}

		k := key{record.SiteID, record.Timestamp}
		if pos, ok := positions[k]; ok {
			items[pos] = item
			continue
		}

		positions[k] = len(items)
		items = append(items, item)
	}

	return items, nil
}
