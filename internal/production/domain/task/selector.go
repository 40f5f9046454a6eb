package task

import (
	"errors"
	"strings"
)

// ErrInvalidSelector indicates the working-set selector is malformed.
// Selector errors are rejected before any repository access.
var ErrInvalidSelector = errors.New("invalid task selector")

// Selector narrows the working set. ProjectID and TaskIDs may be combined;
// an empty selector means all non-completed tasks.
type Selector struct {
	ProjectID string
	TaskIDs   []string
}

// IsEmpty reports whether the selector matches the default working set.
func (s Selector) IsEmpty() bool {
	return s.ProjectID == "" && len(s.TaskIDs) == 0
}

// Validate rejects blank or whitespace-only identifiers.
func (s Selector) Validate() error {
	if s.ProjectID != "" && strings.TrimSpace(s.ProjectID) == "" {
		return ErrInvalidSelector
	}
	for _, id := range s.TaskIDs {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidSelector
		}
	}
	return nil
}
