package router

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the parts of a component custom id.
const Delimiter = ":"

// ErrMalformedID is returned for custom ids that do not name a system and an action.
var ErrMalformedID = errors.New("malformed custom id")

// Action is the parsed form of a component custom id: system:name:args...
type Action struct {
	System string
	Name   string
	Args   []string
}

// ParseAction parses a custom id.
func ParseAction(customID string) (Action, error) {
	parts := strings.Split(customID, Delimiter)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedID, customID)
	}

	return Action{
		System: parts[0],
		Name:   parts[1],
		Args:   parts[2:],
	}, nil
}

// Arg returns the argument at index i, or an empty string when there is none.
func (a Action) Arg(i int) string {
	if i < 0 || i >= len(a.Args) {
		return ""
	}
	return a.Args[i]
}

// String returns the custom id the action was parsed from.
func (a Action) String() string {
	return ID(a.System, a.Name, a.Args...)
}

// ID builds a custom id.
func ID(system, name string, args ...string) string {
	return strings.Join(append([]string{system, name}, args...), Delimiter)
}
