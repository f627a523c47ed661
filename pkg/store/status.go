package store

import (
	"fmt"
	"strings"

	rserrors "github.com/vango-dev/renderstate/internal/errors"
)

// Status is the lifecycle state of a resource.
type Status int

const (
	Idle    Status = iota // Nothing requested yet, or reset
	Loading               // Producer in flight
	Success               // Current data available
	Error                 // Current error available
)

var statusNames = [...]string{
	Idle:    "Idle",
	Loading: "Loading",
	Success: "Success",
	Error:   "Error",
}

// String returns the status name, or Status(n) for unknown values.
func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	return s >= Idle && s <= Error
}

// ParseStatus parses a status name (case-insensitive).
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return Idle, rserrors.New("R022").WithDetail(fmt.Sprintf("Status %q is not one of Idle, Loading, Success or Error.", name))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
