package domain

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every violated input rule into one error so the
// caller sees the complete list in a single round trip.
type ValidationError struct {
	Violations []string
}

// Add appends a violation message.
func (e *ValidationError) Add(msg string) {
	e.Violations = append(e.Violations, msg)
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Violations) == 0
}

func (e *ValidationError) Error() string {
	return "invalid scenario parameters: " + strings.Join(e.Violations, "; ")
}

// PathError records a single failed Monte Carlo path. Path failures are
// collected in the batch result rather than propagated; sibling paths keep
// running.
type PathError struct {
	Path    int    `json:"path"`
	Message string `json:"message"`
}

func (e PathError) Error() string {
	return fmt.Sprintf("path %d: %s", e.Path, e.Message)
}
