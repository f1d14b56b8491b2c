package enums

import "fmt"

// OperationMode selects which catalog and settings a session works against.
type OperationMode string

const (
	OperationModeBuy  OperationMode = "buy"
	OperationModeSell OperationMode = "sell"
)

var validOperationModes = []OperationMode{
	OperationModeBuy,
	OperationModeSell,
}

// String implements fmt.Stringer.
func (m OperationMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known OperationMode.
func (m OperationMode) IsValid() bool {
	for _, candidate := range validOperationModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Label returns the uppercase operation label used in outbound summaries.
func (m OperationMode) Label() string {
	switch m {
	case OperationModeBuy:
		return "BUY"
	case OperationModeSell:
		return "SELL"
	default:
		return ""
	}
}

// ParseOperationMode converts raw input into an OperationMode.
func ParseOperationMode(value string) (OperationMode, error) {
	for _, candidate := range validOperationModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation mode %q", value)
}
