package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"energy-telemetry-pipeline/src/types"
)

// ParseBatch decodes a batch file: a JSON array of record objects.
// Anything else fails the whole batch.
func ParseBatch(content []byte) ([]types.RawRecord, error) {
	if !utf8.Valid(content) {
		return nil, &types.ValidationError{Index: -1, Reason: "content is not valid UTF-8"}
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &types.ValidationError{Index: -1, Reason: "content is not a JSON array"}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, &types.ValidationError{Index: -1, Reason: err.Error()}
	}

	raws := make([]types.RawRecord, 0, len(elements))

	for i, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '{' {
			return nil, &types.ValidationError{Index: i, Reason: "record is not a JSON object"}
		}

		var raw types.RawRecord
		if err := json.Unmarshal(element, &raw); err != nil {
			return nil, &types.ValidationError{Index: i, Reason: fmt.Sprintf("cannot decode record: %v", err)}
		}

		raws = append(raws, raw)
	}

	return raws, nil
}
