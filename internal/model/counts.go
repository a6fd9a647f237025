package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Number is a payload metric. JSON null decodes to zero so every metric can
// be formatted without a presence check.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String formats the shortest representation ("3", "12.5").
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Fixed formats with exactly prec decimal places.
func (n Number) Fixed(prec int) string {
	return strconv.FormatFloat(float64(n), 'f', prec, 64)
}

// Count is one name -> value entry of a payload mapping
type Count struct {
	Key   string
	Value Number
}

// Counts is a JSON object of name -> number that keeps the payload's key order.
// A nil Counts means the mapping was absent.
type Counts []Count

// Get returns the value stored under key.
func (c Counts) Get(key string) (Number, bool) {
	for _, e := range c {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Keys returns the mapping keys in payload order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, e := range c {
		keys = append(keys, e.Key)
	}
	return keys
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*c = nil
		return nil
	}
	out := Counts{}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var v Number
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		for i := range out {
			if out[i].Key == key {
				out[i].Value = v
				return nil
			}
		}
		out = append(out, Count{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func (c Counts) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(e.Value.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Tally is one keyword of a nested tally with its per-name counts
type Tally struct {
	Key    string
	Counts Counts
}

// NestedCounts is a JSON object of keyword -> (name -> count), in payload order.
type NestedCounts []Tally

// Get returns the inner mapping for key.
func (n NestedCounts) Get(key string) (Counts, bool) {
	for _, t := range n {
		if t.Key == key {
			return t.Counts, true
		}
	}
	return nil, false
}

func (n *NestedCounts) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*n = nil
		return nil
	}
	out := NestedCounts{}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var inner Counts
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("tally %q: %w", key, err)
		}
		for i := range out {
			if out[i].Key == key {
				out[i].Counts = inner
				return nil
			}
		}
		out = append(out, Tally{Key: key, Counts: inner})
		return nil
	})
	if err != nil {
		return err
	}
	*n = out
	return nil
}

func (n NestedCounts) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Key)
		if err != nil {
			return nil, err
		}
		inner, err := t.Counts.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObject walks a JSON object's members in document order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
