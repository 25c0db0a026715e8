package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkoosis/wpstat/internal/detect"
	"github.com/dkoosis/wpstat/internal/waterpoint"
)

// Decode parses a payload into records. The payload must be a top-level JSON
// array or NDJSON. Object elements become Records holding their scalar
// attributes; null, object and array attributes are dropped. Non-object
// elements become nil Records.
func Decode(data []byte) ([]waterpoint.Record, error) {
	switch detect.Sniff(data) {
	case detect.JSONArray:
		return decodeArray(data)
	case detect.NDJSON:
		return decodeLines(data)
	default:
		return nil, fmt.Errorf("%w: payload is not a JSON array", ErrDownloadFailed)
	}
}

func decodeArray(data []byte) ([]waterpoint.Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: decode json array: %v", ErrDownloadFailed, err)
	}
	records := make([]waterpoint.Record, 0, len(elems))
	for _, raw := range elems {
		rec, err := decodeElement(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: decode element %d: %v", ErrDownloadFailed, len(records), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeLines(data []byte) ([]waterpoint.Record, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Allow large lines for records with long free-text attributes
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []waterpoint.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := decodeElement(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDownloadFailed, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning ndjson: %v", ErrDownloadFailed, err)
	}
	return records, nil
}

// decodeElement converts one JSON value into a Record.
func decodeElement(raw json.RawMessage) (waterpoint.Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		if !json.Valid(raw) {
			return nil, errors.New("invalid json value")
		}
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	rec := make(waterpoint.Record, len(fields))
	for k, v := range fields {
		if s, ok := scalarString(v); ok {
			rec[k] = s
		}
	}
	return rec, nil
}

// scalarString renders a JSON scalar as text. Strings are unquoted; numbers
// and booleans keep their literal form.
func scalarString(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", false
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	case 'n', '{', '[':
		return "", false
	default:
		return string(v), true
	}
}
