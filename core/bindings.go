package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Bindings maps variable names to the distribution each is drawn from.
// Names keep insertion order, which is also the order values are drawn in a
// trial, so a seeded run is reproducible.
type Bindings struct {
	names []string
	dists map[string]Distribution
}

func NewBindings() *Bindings {
	return &Bindings{dists: map[string]Distribution{}}
}

// Set binds name to d, keeping its position if already present.
func (b *Bindings) Set(name string, d Distribution) *Bindings {
	if b == nil {
		b = NewBindings()
	}
	if b.dists == nil {
		b.dists = map[string]Distribution{}
	}
	if _, exists := b.dists[name]; !exists {
		b.names = append(b.names, name)
	}
	b.dists[name] = d
	return b
}

func (b *Bindings) Get(name string) (Distribution, bool) {
	if b == nil {
		return nil, false
	}
	d, ok := b.dists[name]
	return d, ok
}

func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Names returns the bound names in order. The slice is a copy.
func (b *Bindings) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.names...)
}

// Sync returns bindings whose keys are exactly vars, in that order. Existing
// entries are kept, new names get DefaultDistribution and names no longer in
// vars are dropped.
func (b *Bindings) Sync(vars []string) *Bindings {
	out := NewBindings()
	for _, name := range vars {
		if d, ok := b.Get(name); ok {
			out.Set(name, d)
		} else {
			out.Set(name, DefaultDistribution())
		}
	}
	return out
}

// Missing returns the names in vars that have no distribution.
func (b *Bindings) Missing(vars []string) (out []string) {
	for _, name := range vars {
		if _, ok := b.Get(name); !ok {
			out = append(out, name)
		}
	}
	return
}

// Draw fills into with one sample per binding.
func (b *Bindings) Draw(src Source, into map[string]float64) {
	if b == nil {
		return
	}
	for _, name := range b.names {
		into[name] = Sample(src, b.dists[name])
	}
}

// MarshalJSON encodes the bindings as an object keyed by variable name,
// preserving order.
func (b *Bindings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.dists[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of tagged distribution records. JSON
// objects are unordered, so names are bound in sorted order.
func (b *Bindings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDistribution, err)
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	*b = Bindings{dists: map[string]Distribution{}}
	for _, name := range names {
		d, err := UnmarshalDistribution(raw[name])
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		b.Set(name, d)
	}
	return nil
}
