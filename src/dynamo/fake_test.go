package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// fakeDynamo keeps items in memory keyed by site_id/timestamp. Only the
// methods used by Store are implemented.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI

	items map[string]map[string]*dynamodb.AttributeValue
	order []string

	batchCalls        int
	failBatchCall     int
	unprocessedOnCall int

	queryInputs []*dynamodb.QueryInput
	scanInputs  []*dynamodb.ScanInput
	pageSize    int
	queryErr    error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}, pageSize: 2}
}

func itemKey(item map[string]*dynamodb.AttributeValue) string {
	return aws.StringValue(item["site_id"].S) + "|" + aws.StringValue(item["timestamp"].S)
}

func (f *fakeDynamo) BatchWriteItemWithContext(ctx aws.Context, input *dynamodb.BatchWriteItemInput, opts ...request.Option) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchCalls++
	if f.failBatchCall == f.batchCalls {
		return nil, errors.New("provisioned throughput exceeded")
	}

	output := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]*dynamodb.WriteRequest{}}

	for table, requests := range input.RequestItems {
		seen := map[string]bool{}
		for i, req := range requests {
			k := itemKey(req.PutRequest.Item)
			if seen[k] {
				return nil, errors.New("ValidationException: Provided list of item keys contains duplicates")
			}
			seen[k] = true

			if f.unprocessedOnCall == f.batchCalls && i == len(requests)-1 {
				output.UnprocessedItems[table] = append(output.UnprocessedItems[table], req)
				continue
			}

			if _, ok := f.items[k]; !ok {
				f.order = append(f.order, k)
			}
			f.items[k] = req.PutRequest.Item
		}
	}

	return output, nil
}

func (f *fakeDynamo) storedItems() []map[string]*dynamodb.AttributeValue {
	items := make([]map[string]*dynamodb.AttributeValue, 0, len(f.order))
	for _, k := range f.order {
		items = append(items, f.items[k])
	}
	return items
}

func (f *fakeDynamo) QueryPagesWithContext(ctx aws.Context, input *dynamodb.QueryInput, fn func(*dynamodb.QueryOutput, bool) bool, opts ...request.Option) error {
	f.queryInputs = append(f.queryInputs, input)
	if f.queryErr != nil {
		return f.queryErr
	}

	items := f.storedItems()
	for start := 0; start < len(items) || start == 0; start += f.pageSize {
		end := min(start+f.pageSize, len(items))
		last := end >= len(items)
		if !fn(&dynamodb.QueryOutput{Items: items[start:end]}, last) || last {
			break
		}
	}
	return nil
}

func (f *fakeDynamo) ScanPagesWithContext(ctx aws.Context, input *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, opts ...request.Option) error {
	f.scanInputs = append(f.scanInputs, input)
	if f.queryErr != nil {
		return f.queryErr
	}

	items := f.storedItems()
	for start := 0; start < len(items) || start == 0; start += f.pageSize {
		end := min(start+f.pageSize, len(items))
		last := end >= len(items)
		if !fn(&dynamodb.ScanOutput{Items: items[start:end]}, last) || last {
			break
		}
	}
	return nil
}
