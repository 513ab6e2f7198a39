package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// marshalColumns converts a column list to JSON TEXT for storage.
func marshalColumns(cols []string) (string, error) {
	data, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("marshal columns: %w", err)
	}
	return string(data), nil
}

// unmarshalColumns parses JSON TEXT back to a column list.
func unmarshalColumns(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var cols []string
	if err := json.Unmarshal([]byte(data), &cols); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}
	return cols, nil
}

// bindValue converts a record value to something database/sql can bind.
// Objects and lists are stored as compact JSON TEXT.
func bindValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return nil, fmt.Errorf("marshal value: %w", err)
		}
		// Encoder adds a trailing newline, remove it
		return strings.TrimSpace(buf.String()), nil
	default:
		return v, nil
	}
}

// scanValue normalizes a scanned column value. Text arrives as []byte from
// some drivers and is returned as string; timestamps are rendered RFC 3339.
func scanValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
