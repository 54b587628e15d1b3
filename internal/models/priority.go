package models

import (
	"encoding/json"
	"strings"
)

// Priority is the closed set of task priority levels.
// The zero value is Unspecified.
type Priority int

const (
	PriorityUnspecified Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// ParsePriority maps a raw snapshot code to a Priority.
// "H", "M" and "L" match case-insensitively; anything else,
// including the empty string, is Unspecified.
func ParsePriority(code string) Priority {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "H":
		return PriorityHigh
	case "M":
		return PriorityMedium
	case "L":
		return PriorityLow
	default:
		return PriorityUnspecified
	}
}

// Code returns the single-letter snapshot code ("" for Unspecified).
func (p Priority) Code() string {
	switch p {
	case PriorityHigh:
		return "H"
	case PriorityMedium:
		return "M"
	case PriorityLow:
		return "L"
	default:
		return ""
	}
}

// Label returns the human-readable name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "None"
	}
}

// Color returns the hex display color for the priority.
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "#F97316"
	case PriorityMedium:
		return "#EAB308"
	case PriorityLow:
		return "#22C55E"
	default:
		return "#6B7280"
	}
}

// MarshalJSON writes the priority as its snapshot code.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Code())
}

// UnmarshalJSON reads a raw snapshot code, tolerating unknown values.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	*p = ParsePriority(code)
	return nil
}
