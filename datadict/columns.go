package datadict

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnSet is an ordered mapping from column name to its human-readable
// description. encoding/json maps would lose the document order, which the
// browser uses as the render order, so the set keeps its own key slice.
type ColumnSet struct {
	names        []string
	descriptions map[string]string
}

// NewColumnSet builds an empty set.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{descriptions: map[string]string{}}
}

func (c *ColumnSet) Len() int {
	if c == nil {
		return 0
	}

	return len(c.names)
}

// Names returns the column names in document order.
func (c *ColumnSet) Names() []string {
	if c == nil {
		return nil
	}

	return append([]string{}, c.names...)
}

// Get returns the description for a column.
func (c *ColumnSet) Get(name string) (string, bool) {
	if c == nil {
		return "", false
	}

	desc, ok := c.descriptions[name]
	return desc, ok
}

// Set appends a column, or updates its description in place if the name is
// already present.
func (c *ColumnSet) Set(name, description string) {
	if c.descriptions == nil {
		c.descriptions = map[string]string{}
	}

	if _, ok := c.descriptions[name]; !ok {
		c.names = append(c.names, name)
	}
	c.descriptions[name] = description
}

// UnmarshalJSON decodes a JSON object one token at a time so that the key
// order of the document is retained.
func (c *ColumnSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("columns must be a JSON object, got %v", tok)
	}

	c.names = nil
	c.descriptions = map[string]string{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected column key token %v", keyTok)
		}

		var description string
		if err := dec.Decode(&description); err != nil {
			return fmt.Errorf("column %q: %v", key, err)
		}

		c.Set(key, description)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}

// MarshalJSON emits the columns as a JSON object in document order.
func (c *ColumnSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyJSON, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		descJSON, err := json.Marshal(c.descriptions[name])
		if err != nil {
			return nil, err
		}
		buf.Write(descJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
