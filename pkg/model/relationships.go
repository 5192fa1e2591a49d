package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RelationshipList holds raw relations in the order they appear in the
// input document. AI2D stores relationships as a JSON object keyed by
// relation id; a plain map would lose that order, and the graph builder
// must see relations in input order so that an arrow's arrowhead is on
// record before a relation that routes through that arrow.
type RelationshipList []Relationship

// UnmarshalJSON decodes a relationships object, preserving key order.
func (l *RelationshipList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading relationships: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("relationships: expected object, got %v", tok)
	}

	var out RelationshipList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading relationship id: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("relationships: non-string key %v", keyTok)
		}

		var rel Relationship
		if err := dec.Decode(&rel); err != nil {
			return fmt.Errorf("decoding relationship %s: %w", id, err)
		}
		if rel.ID == "" {
			rel.ID = id
		}
		out = append(out, rel)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing relationships: %w", err)
	}

	*l = out
	return nil
}

// UnmarshalJSON keeps the three-way connector distinction: a missing
// field stays nil, while an explicit null becomes a present empty
// string. The standard decoder would fold both into nil.
func (r *Relationship) UnmarshalJSON(data []byte) error {
	type plain Relationship
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Relationship(p)

	if r.Connector == nil {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if v, ok := raw["connector"]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			empty := ""
			r.Connector = &empty
		}
	}
	return nil
}

// MarshalJSON encodes the list back into an object keyed by relation id,
// in list order.
func (l RelationshipList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rel := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rel.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(rel)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
