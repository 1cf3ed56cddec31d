// Package errors defines the pipeline's failure taxonomy. Local data
// defects are absorbed and counted, schema defects degrade the affected
// feature, aggregate invariant violations block export, and I/O defects
// abort the run before any transformation begins.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a pipeline error by its propagation policy.
type Category string

const (
	// CategoryDataDefect covers malformed values and unusable rows.
	// Recovered locally by coercion-to-missing or row exclusion.
	CategoryDataDefect Category = "data_defect"
	// CategorySchemaDefect covers missing expected columns. The dependent
	// feature is skipped; not fatal.
	CategorySchemaDefect Category = "schema_defect"
	// CategoryInvariant covers aggregate invariant violations. Fatal for
	// the export.
	CategoryInvariant Category = "invariant_violation"
	// CategoryIO covers missing or unreadable source files. Fatal at load
	// time.
	CategoryIO Category = "io_defect"
)

// PipelineError is a categorized error raised by a pipeline step.
type PipelineError struct {
	Category Category `json:"category"`
	Step     string   `json:"step"`
	Message  string   `json:"message"`
	Err      error    `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Step, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Step, e.Category, e.Message)
}

// Unwrap returns the wrapped error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewIO creates a fatal I/O error for the given step
func NewIO(step, message string, err error) *PipelineError {
	return &PipelineError{Category: CategoryIO, Step: step, Message: message, Err: err}
}

// NewSchema creates a non-fatal schema defect for the given step
func NewSchema(step, message string) *PipelineError {
	return &PipelineError{Category: CategorySchemaDefect, Step: step, Message: message}
}

// NewInvariant creates a fatal invariant violation for the given step
func NewInvariant(step, message string) *PipelineError {
	return &PipelineError{Category: CategoryInvariant, Step: step, Message: message}
}

// CategoryOf returns the category of err if it is a PipelineError,
// or an empty category otherwise.
func CategoryOf(err error) Category {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}

// ValidationErrors collects every invariant violation found by the
// validator so all failures surface together instead of just the first.
type ValidationErrors struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed with %d error(s): %s",
		len(v.Errors), strings.Join(v.Errors, "; "))
}

// HasErrors reports whether any hard check failed
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}
