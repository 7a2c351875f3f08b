package capgains

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Policy defines the lot-selection policy used to cover a sale.
type Policy int

const (
	// HIFO (Highest-In, First-Out) consumes the highest-price open lot first.
	HIFO Policy = iota
	// FIFO (First-In, First-Out) consumes the oldest open lot first.
	FIFO
)

func (p Policy) String() string {
	switch p {
	case HIFO:
		return "hifo"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "hifo":
		return HIFO, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown accounting policy: %q", s)
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalYAML implements the yaml.Unmarshaler interface, so a policy can
// be written as plain "hifo" or "fifo" in configuration files.
func (p *Policy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PolicyMap maps a calendar year to the policy in force for sales of that
// year. A policy change never retroactively affects already-emitted pairs:
// the ledger is reordered fresh at each sale with that sale's year policy.
type PolicyMap map[int]Policy
