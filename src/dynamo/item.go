package dynamo

import (
	"fmt"

	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/shopspring/decimal"
)

// energyItem is the table row. Numbers travel as their decimal text so a
// written value reads back unchanged.
type energyItem struct {
	SiteID    string                   `dynamodbav:"site_id"`
	Timestamp string                   `dynamodbav:"timestamp"`
	Generated dynamodbattribute.Number `dynamodbav:"energy_generated_kwh"`
	Consumed  dynamodbattribute.Number `dynamodbav:"energy_consumed_kwh"`
	NetEnergy dynamodbattribute.Number `dynamodbav:"net_energy_kwh"`
	Anomaly   bool                     `dynamodbav:"anomaly"`
}

type flagItem struct {
	SiteID  string `dynamodbav:"site_id"`
	Anomaly bool   `dynamodbav:"anomaly"`
}

func toItem(record types.EnergyRecord) energyItem {
	return energyItem{
		SiteID:    record.SiteID,
		Timestamp: record.Timestamp,
		Generated: dynamodbattribute.Number(record.Generated.String()),
		Consumed:  dynamodbattribute.Number(record.Consumed.String()),
		NetEnergy: dynamodbattribute.Number(record.NetEnergy.String()),
		Anomaly:   record.Anomaly,
	}
}

func (item energyItem) toRecord() (types.EnergyRecord, error) {
	generated, err := decimal.NewFromString(string(item.Generated))
	if err != nil {
		return types.EnergyRecord{}, fmt.Errorf("invalid energy_generated_kwh for %s/%s: %w", item.SiteID, item.Timestamp, err)
	}

	consumed, err := decimal.NewFromString(string(item.Consumed))
	if err != nil {
		return types.EnergyRecord{}, fmt.Errorf("invalid energy_consumed_kwh for %s/%s: %w", item.SiteID, item.Timestamp, err)
	}

	net, err := decimal.NewFromString(string(item.NetEnergy))
	if err != nil {
		return types.EnergyRecord{}, fmt.Errorf("invalid net_energy_kwh for %s/%s: %w", item.SiteID, item.Timestamp, err)
	}

	return types.EnergyRecord{
		SiteID:    item.SiteID,
		Timestamp: item.Timestamp,
		Generated: generated,
		Consumed:  consumed,
		NetEnergy: net,
		Anomaly:   item.Anomaly,
	}, nil
}
