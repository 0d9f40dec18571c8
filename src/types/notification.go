package types

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const maxSubjectLength = 100

type AnomalyNotification struct {
	SiteID    string          `json:"site_id"`
	Timestamp string          `json:"timestamp"`
	Generated decimal.Decimal `json:"energy_generated_kwh"`
	Consumed  decimal.Decimal `json:"energy_consumed_kwh"`
	Bucket    string          `json:"bucket"`
	Key       string          `json:"key"`
}

func NewAnomalyNotification(record EnergyRecord, bucket, key string) AnomalyNotification {
	return AnomalyNotification{
		SiteID:    record.SiteID,
		Timestamp: record.Timestamp,
		Generated: record.Generated,
		Consumed:  record.Consumed,
		Bucket:    bucket,
		Key:       key,
	}
}

// SourceURI identifies the batch file the anomalous record came from.
func (n AnomalyNotification) SourceURI() string {
	return fmt.Sprintf("s3://%s/%s", n.Bucket, n.Key)
}

// Subject is capped at the 100 bytes SNS accepts for email subjects, cut on
// a character boundary.
func (n AnomalyNotification) Subject() string {
	subject := "Anomaly Detected for Site: " + n.SiteID
	if len(subject) <= maxSubjectLength {
		return subject
	}
	cut := maxSubjectLength
	for cut > 0 && !utf8.RuneStart(subject[cut]) {
		cut--
	}
	return subject[:cut]
}

func (n AnomalyNotification) Body() string {
	return fmt.Sprintf("An anomalous energy record was detected for site '%s' at %s.\n\n"+
		"Details:\n"+
		"  - Energy Generated: %s kWh\n"+
		"  - Energy Consumed: %s kWh\n\n"+
		"File: %s",
		n.SiteID, n.Timestamp, n.Generated.String(), n.Consumed.String(), n.SourceURI())
}
