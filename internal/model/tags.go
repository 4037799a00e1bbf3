package model

import "encoding/json"

// Tags is an ordered mapping from tag name to its values. Names keep their
// first-seen order and each name's values keep source order.
type Tags struct {
	names  []string
	values map[string][]string
}

// Add appends value to the values of name.
func (t *Tags) Add(name, value string) {
	if t.values == nil {
		t.values = make(map[string][]string)
	}
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = append(t.values[name], value)
}

// Names returns the tag names in first-seen order.
func (t Tags) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Get returns the values recorded for name.
func (t Tags) Get(name string) []string {
	vals := t.values[name]
	if vals == nil {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Has reports whether name was seen.
func (t Tags) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Len returns the number of distinct tag names.
func (t Tags) Len() int {
	return len(t.names)
}

type tagJSON struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// MarshalJSON encodes the tags as an ordered list.
func (t Tags) MarshalJSON() ([]byte, error) {
	out := make([]tagJSON, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, tagJSON{Name: name, Values: t.values[name]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes tags written by MarshalJSON.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var in []tagJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = Tags{}
	for _, tag := range in {
		for _, v := range tag.Values {
			t.Add(tag.Name, v)
		}
	}
	return nil
}
