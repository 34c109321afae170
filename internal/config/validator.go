package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
)

// Limits enforced by Validate. vtlog clamps silently; the config rejects.
const (
	MaxColumns   = 256
	MinLineCount = 4
	rowMargin    = 2
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "terminal.columns")
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	t := c.Terminal
	if t.Columns < 1 || t.Columns > MaxColumns {
		add("terminal.columns", t.Columns, fmt.Sprintf("must be between 1 and %d", MaxColumns))
	}
	if t.Rows < 1 {
		add("terminal.rows", t.Rows, "must be positive")
	}
	if t.LineCount < MinLineCount {
		add("terminal.line_count", t.LineCount, fmt.Sprintf("must be at least %d", MinLineCount))
	}
	// A screenful of four-byte characters must fit in the slack compaction
	// keeps free.
	if floor := (t.Columns*4 + 1) * 2; t.LineSize < floor {
		add("terminal.line_size", t.LineSize, fmt.Sprintf("must be at least %d for %d columns", floor, t.Columns))
	} else if limit := t.LineSize - rowMargin - t.LineCount/2; t.Rows > limit {
		add("terminal.rows", t.Rows, fmt.Sprintf("must not exceed %d for this arena", limit))
	}
	if t.PollIntervalMs < 1 {
		add("terminal.poll_interval_ms", t.PollIntervalMs, "must be positive")
	}

	if c.Capture.BufferSize < 1 {
		add("capture.buffer_size", c.Capture.BufferSize, "must be positive")
	}

	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		add("logging.level", c.Logging.Level, "must be one of "+strings.Join(logging.ValidLevels(), ", "))
	}
	return errs
}
