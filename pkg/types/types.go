package types

import (
	"errors"
	"fmt"
)

// OrderMode selects how the unique values of an input are ordered.
type OrderMode int

const (
	OrderOriginal OrderMode = iota
	OrderAscending
	OrderDescending
)

// ErrInvalidOrderMode is returned by ParseOrderMode for unknown flags.
var ErrInvalidOrderMode = errors.New("invalid order type, use 'o', 'a', or 'd'")

// ParseOrderMode maps the command-line order flag to an OrderMode.
func ParseOrderMode(flag string) (OrderMode, error) {
	switch flag {
	case "o":
		return OrderOriginal, nil
	case "a":
		return OrderAscending, nil
	case "d":
		return OrderDescending, nil
	default:
		return OrderOriginal, fmt.Errorf("%w: %q", ErrInvalidOrderMode, flag)
	}
}

func (m OrderMode) String() string {
	switch m {
	case OrderOriginal:
		return "original"
	case OrderAscending:
		return "ascending"
	case OrderDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// Flag returns the single-letter command-line form of the mode.
func (m OrderMode) Flag() string {
	switch m {
	case OrderAscending:
		return "a"
	case OrderDescending:
		return "d"
	default:
		return "o"
	}
}

// MarshalText renders the mode by name in JSON and YAML output.
func (m OrderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Summary is the result of analysing one input string.
type Summary struct {
	Input            string    `json:"input" yaml:"input"`
	Mode             OrderMode `json:"mode" yaml:"mode"`
	DuplicateCount   int       `json:"duplicate_count" yaml:"duplicate_count"`
	LowestDuplicate  int       `json:"lowest_duplicate" yaml:"lowest_duplicate"`
	HighestDuplicate int       `json:"highest_duplicate" yaml:"highest_duplicate"`
	Duplicates       []int     `json:"duplicates" yaml:"duplicates"`
	Unique           []int     `json:"unique" yaml:"unique"`
	Empty            bool      `json:"empty,omitempty" yaml:"empty,omitempty"`
	Output           string    `json:"output" yaml:"output"`
}
