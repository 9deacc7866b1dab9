// Package jsonx extracts structured JSON objects from free-form model output.
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned when the text holds no {...} span.
var ErrNoObject = errors.New("no json object found")

// ExtractObject isolates the span between the first '{' and the last '}'.
// Models often wrap JSON in commentary or markdown fences; this tolerates both.
func ExtractObject(raw string) (string, bool) {
	startIdx := strings.Index(raw, "{")
	endIdx := strings.LastIndex(raw, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return "", false
	}

	return raw[startIdx : endIdx+1], true
}

// DecodeObject extracts the object span from raw and unmarshals it into v.
func DecodeObject(raw string, v any) error {
	obj, ok := ExtractObject(raw)
	if !ok {
		return ErrNoObject
	}
	return json.Unmarshal([]byte(obj), v)
}

// DecodeFields behaves like DecodeObject and additionally reports which
// top-level keys were present, so callers can tell a missing key from a zero
// value.
func DecodeFields(raw string, v any) (map[string]bool, error) {
	obj, ok := ExtractObject(raw)
	if !ok {
		return nil, ErrNoObject
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &keys); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(keys))
	for k := range keys {
		present[k] = true
	}
	return present, nil
}
