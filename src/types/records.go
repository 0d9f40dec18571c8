package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RawRecord is one entry of an uploaded batch file before validation.
// Numeric fields are kept as raw JSON so that a quoted or missing value can be
// told apart from a number.
type RawRecord struct {
	SiteID    *string         `json:"site_id"`
	Timestamp *string         `json:"timestamp"`
	Generated json.RawMessage `json:"energy_generated_kwh"`
	Consumed  json.RawMessage `json:"energy_consumed_kwh"`
}

// EnergyRecord is the canonical, persisted form of a reading.
// (SiteID, Timestamp) is the table's partition and sort key.
type EnergyRecord struct {
	SiteID    string
	Timestamp string
	Generated decimal.Decimal
	Consumed  decimal.Decimal
	NetEnergy decimal.Decimal
	Anomaly   bool
}

type energyRecordJSON struct {
	SiteID    string      `json:"site_id"`
	Timestamp string      `json:"timestamp"`
	Generated json.Number `json:"energy_generated_kwh"`
	Consumed  json.Number `json:"energy_consumed_kwh"`
	NetEnergy json.Number `json:"net_energy_kwh"`
	Anomaly   bool        `json:"anomaly"`
}

// MarshalJSON renders the kWh values as JSON numbers from their exact decimal text.
func (r EnergyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(energyRecordJSON{
		SiteID:    r.SiteID,
		Timestamp: r.Timestamp,
		Generated: json.Number(r.Generated.String()),
		Consumed:  json.Number(r.Consumed.String()),
		NetEnergy: json.Number(r.NetEnergy.String()),
		Anomaly:   r.Anomaly,
	})
}

// SiteFlag is the projection scanned to build a Summary.
type SiteFlag struct {
	SiteID  string
	Anomaly bool
}

// Summary is the full-table aggregate served by GET /summary.
type Summary struct {
	TotalRecords            int            `json:"total_records"`
	TotalAnomalies          int            `json:"total_anomalies"`
	TotalSites              int            `json:"total_sites"`
	SiteAnomalyDistribution map[string]int `json:"site_anomaly_distribution"`
}
