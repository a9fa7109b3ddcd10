// Package component models the two-terminal circuit elements submitted by
// the schematic editor: a closed kind set, geometric pin positions, and the
// optional value/source parameters the analysis pipeline consumes.
package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for a component kind outside the closed set.
	ErrUnknownKind = errors.New("component: unknown component kind")
	// ErrMissingParameter is returned when a required value, voltage or
	// current is absent.
	ErrMissingParameter = errors.New("component: missing required parameter")
)

// Kind is the closed set of supported component kinds. Dispatching on Kind
// is exhaustive; payloads carrying anything else fail at decode time with
// ErrUnknownKind instead of being silently accepted.
type Kind int

const (
	// The zero Kind is invalid on purpose: a payload that omits the type
	// field decodes to it and fails validation instead of passing as a wire.
	Wire Kind = iota + 1
	Resistor
	Capacitor
	Inductor
	VoltageSource
	CurrentSource
)

var kindNames = [...]string{
	Wire:          "wire",
	Resistor:      "resistor",
	Capacitor:     "capacitor",
	Inductor:      "inductor",
	VoltageSource: "voltage_source",
	CurrentSource: "current_source",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a wire-format kind name onto its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name != "" && s == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalJSON renders the kind under its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if k <= 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return json.Marshal(kindNames[k])
}

// UnmarshalJSON parses the wire name, rejecting kinds outside the closed set.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Direction is the declared current direction of a current source.
type Direction string

const (
	DirectionAToB Direction = "a_to_b"
	DirectionBToA Direction = "b_to_a"
)

// Polarity marks which terminal of a voltage source is positive.
type Polarity string

const (
	APositive Polarity = "a_positive"
	BPositive Polarity = "b_positive"
)

// Pin is a geometric terminal position on the editor canvas.
type Pin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component is one normalized circuit element coming from the editor.
// PinA/PinB fix the a→b orientation used for branch-current signs.
type Component struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"type"`
	PinA           Pin       `json:"pinA"`
	PinB           Pin       `json:"pinB"`
	Label          string    `json:"label,omitempty"`
	Value          string    `json:"value,omitempty"`
	Current        string    `json:"current,omitempty"`
	Voltage        string    `json:"voltage,omitempty"`
	CurrentUnknown bool      `json:"currentUnknown,omitempty"`
	VoltageUnknown bool      `json:"voltageUnknown,omitempty"`
	Direction      Direction `json:"sourceDirection,omitempty"`
	Polarity       Polarity  `json:"sourcePolarity,omitempty"`
}

// CanonicalLabel returns the user-assigned label, or KIND_<n> derived from
// the component's position in the submission list.
func (c *Component) CanonicalLabel(index int) string {
	if l := strings.TrimSpace(c.Label); l != "" {
		return l
	}
	return fmt.Sprintf("%s_%d", strings.ToUpper(c.Kind.String()), index+1)
}

// CheckParams verifies that the parameters the analysis needs are present.
// An external validator runs the same checks before a job is accepted; the
// pipeline re-checks defensively before assembling equations.
func (c *Component) CheckParams() error {
	switch c.Kind {
	case Wire:
		return nil
	case Resistor, Capacitor, Inductor:
		if strings.TrimSpace(c.Value) == "" {
			return fmt.Errorf("%w: %s value (%s)", ErrMissingParameter, c.Kind, c.ID)
		}
		return nil
	case VoltageSource:
		if c.VoltageUnknown || strings.TrimSpace(c.Voltage) == "" {
			return fmt.Errorf("%w: source voltage (%s)", ErrMissingParameter, c.ID)
		}
		return nil
	case CurrentSource:
		if c.CurrentUnknown || strings.TrimSpace(c.Current) == "" {
			return fmt.Errorf("%w: source current (%s)", ErrMissingParameter, c.ID)
		}
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnknownKind, c.Kind, c.ID)
}
