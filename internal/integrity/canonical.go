package integrity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNoValue = errors.New("no value to canonicalize")

// Canonicalize serializes v as JSON with every object's keys in
// lexicographic order, at any depth. The result does not depend on struct
// field order or map iteration order.
func Canonicalize(v any) ([]byte, error) {
	if v == nil {
		return nil, errNoValue
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if generic == nil {
		return nil, errNoValue
	}

	// maps re-encode with sorted keys
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
