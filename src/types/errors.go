package types

import "fmt"

// ValidationError reports a batch file or record that does not match the
// expected schema. Index is -1 when the file as a whole is malformed.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid batch: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid record %d: field %s: %s", e.Index, e.Field, e.Reason)
}

// StoreWriteError reports writes that the store did not confirm. Confirmed
// items stay written; the store is not transactional across a batch.
type StoreWriteError struct {
	Confirmed   int
	Unconfirmed int
	Err         error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write not confirmed for %d item(s) (%d confirmed): %v", e.Unconfirmed, e.Confirmed, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

type NotificationError struct {
	SiteID    string
	Timestamp string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to publish anomaly for site %s at %s: %v", e.SiteID, e.Timestamp, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

type SourceFetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }
