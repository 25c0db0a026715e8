// Package detect sniffs a downloaded payload to determine its layout.
package detect

import (
	"bytes"
	"encoding/json"
)

// Format represents a recognized payload layout.
type Format int

const (
	Unknown   Format = iota
	JSONArray        // a single top-level JSON array
	NDJSON           // newline-delimited JSON objects, one record per line
)

func (f Format) String() string {
	switch f {
	case JSONArray:
		return "json-array"
	case NDJSON:
		return "ndjson"
	default:
		return "unknown"
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff examines the first bytes of data to determine format.
// A lone top-level object is NDJSON only when a newline terminates it.
func Sniff(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '[':
		return JSONArray
	case '{':
		if isNDJSON(data) {
			return NDJSON
		}
	}
	return Unknown
}

func isNDJSON(data []byte) bool {
	first, rest, terminated := bytes.Cut(data, []byte("\n"))
	if !isObjectLine(first) {
		return false
	}

	// Find the next non-blank line
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		return line[0] == '{'
	}
	return terminated
}

func isObjectLine(line []byte) bool {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return false
	}
	var probe map[string]json.RawMessage
	return json.Unmarshal(line, &probe) == nil
}
