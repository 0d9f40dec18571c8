package records

import (
	"bytes"
	"strings"

	"energy-telemetry-pipeline/src/types"
	"energy-telemetry-pipeline/src/utils"

	"github.com/shopspring/decimal"
)

// Normalize validates one raw record and derives net energy and the anomaly flag.
// index is the record's position in its batch and is only used for error reporting.
func Normalize(index int, raw types.RawRecord) (types.EnergyRecord, error) {
	siteID, err := requireString(index, "site_id", raw.SiteID)
	if err != nil {
		return types.EnergyRecord{}, err
	}

	timestamp, err := requireString(index, "timestamp", raw.Timestamp)
	if err != nil {
		return types.EnergyRecord{}, err
	}

	generated, err := requireNumber(index, "energy_generated_kwh", raw.Generated)
	if err != nil {
		return types.EnergyRecord{}, err
	}

	consumed, err := requireNumber(index, "energy_consumed_kwh", raw.Consumed)
	if err != nil {
		return types.EnergyRecord{}, err
	}

	return types.EnergyRecord{
		SiteID:    siteID,
		Timestamp: timestamp,
		Generated: generated,
		Consumed:  consumed,
		NetEnergy: utils.NetEnergy(generated, consumed),
		Anomaly:   utils.IsAnomaly(generated, consumed),
	}, nil
}

// NormalizeBatch normalizes every record, stopping at the first invalid one.
func NormalizeBatch(raws []types.RawRecord) ([]types.EnergyRecord, error) {
	normalized := make([]types.EnergyRecord, 0, len(raws))

	for i, raw := range raws {
		record, err := Normalize(i, raw)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, record)
	}

	return normalized, nil
}

func requireString(index int, field string, value *string) (string, error) {
	if value == nil {
		return "", &types.ValidationError{Index: index, Field: field, Reason: "missing"}
	}
	if strings.TrimSpace(*value) == "" {
		return "", &types.ValidationError{Index: index, Field: field, Reason: "empty"}
	}
	return *value, nil
}

// requireNumber accepts a JSON number literal only. Quoted numbers are rejected
// so the value keeps the exact digits that were written in the file.
func requireNumber(index int, field string, value []byte) (decimal.Decimal, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return decimal.Decimal{}, &types.ValidationError{Index: index, Field: field, Reason: "missing"}
	}

	if value[0] != '-' && (value[0] < '0' || value[0] > '9') {
		return decimal.Decimal{}, &types.ValidationError{Index: index, Field: field, Reason: "not a number"}
	}

	d, err := decimal.NewFromString(string(value))
	if err != nil {
		return decimal.Decimal{}, &types.ValidationError{Index: index, Field: field, Reason: "not a number"}
	}

	return d, nil
}
