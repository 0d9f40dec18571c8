package types

type BatchStatus string

const (
	BatchSucceeded BatchStatus = "SUCCEEDED"
	BatchFailed    BatchStatus = "FAILED"
)

// IngestionOutcome summarizes one processed batch file. Status is binary:
// a batch that wrote some records and then failed is still BatchFailed.
type IngestionOutcome struct {
	Bucket    string      `json:"bucket"`
	Key       string      `json:"key"`
	Processed int         `json:"processed"`
	Anomalies int         `json:"anomalies"`
	Written   int         `json:"written"`
	Notified  int         `json:"notified"`
	Status    BatchStatus `json:"status"`
}

func (o IngestionOutcome) Succeeded() bool {
	return o.Status == BatchSucceeded
}
