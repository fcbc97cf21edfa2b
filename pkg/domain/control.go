package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ControlKind constants classify the interactive inputs a node's code can declare.
const (
	// ControlSlider is a numeric value constrained by a Range.
	ControlSlider = "slider"
	// ControlToggle is a boolean switch.
	ControlToggle = "toggle"
	// ControlText is a free-form text input.
	ControlText = "text"
)

// ControlRange bounds a slider control.
type ControlRange struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// ControlDescriptor is an interactive input a node's code declares every
// time it runs. Name is unique per node; declaration order is the insertion
// order of that run.
type ControlDescriptor struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Default any    `json:"default" yaml:"default"`

	// Value is the user-adjusted current value. Nil means the user has not
	// touched the control and Default applies.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Range bounds slider controls; nil for toggles and text inputs.
	Range *ControlRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// EffectiveValue returns the user-set value, falling back to the default.
func (c ControlDescriptor) EffectiveValue() any {
	if c.Value != nil {
		return c.Value
	}
	return c.Default
}

// MergeControls carries user-adjusted values from prev into next: for each
// control in next, a same-named control in prev donates its Value. Controls
// whose name disappeared from next are dropped along with their values.
func MergeControls(prev, next []ControlDescriptor) []ControlDescriptor {
	byName := make(map[string]ControlDescriptor, len(prev))
	for _, c := range prev {
		byName[c.Name] = c
	}

	merged := make([]ControlDescriptor, len(next))
	for i, c := range next {
		if old, ok := byName[c.Name]; ok && old.Value != nil {
			c.Value = old.Value
		}
		merged[i] = c
	}
	return merged
}

// CloneControls returns a shallow-copied descriptor slice. Descriptor values
// are treated as immutable, so element copies are enough for isolation.
func CloneControls(controls []ControlDescriptor) []ControlDescriptor {
	if controls == nil {
		return nil
	}
	out := make([]ControlDescriptor, len(controls))
	copy(out, controls)
	for i := range out {
		if out[i].Range != nil {
			r := *out[i].Range
			out[i].Range = &r
		}
	}
	return out
}

// DecodeControls converts a loosely-typed payload (e.g. a decoded JSON
// array of maps coming back from the sandbox boundary) into descriptors.
func DecodeControls(raw any) ([]ControlDescriptor, error) {
	if raw == nil {
		return nil, nil
	}
	var controls []ControlDescriptor
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &controls,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode controls: %w", err)
	}
	return controls, nil
}
