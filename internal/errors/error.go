package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryDefinition Category = "definition"
	CategoryRuntime    Category = "runtime"
	CategoryConfig     Category = "config"
	CategoryFixture    Category = "fixture"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a configuration or fixture file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// HybridError is a structured error with a code, an explanation and a hint.
type HybridError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (definition, runtime, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Explanation is the registered long-form description of the code.
	Explanation string

	// Detail describes this particular occurrence.
	Detail string

	// Location points into the file that caused the error, if any.
	Location *Location

	// Context contains surrounding lines of that file.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HybridError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HybridError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HybridError with the same code.
func (e *HybridError) Is(target error) bool {
	t, ok := target.(*HybridError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds a file position and the lines around it.
func (e *HybridError) WithLocation(file string, line, column int) *HybridError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HybridError) WithSuggestion(s string) *HybridError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HybridError) WithDetail(d string) *HybridError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func (e *HybridError) WithDetailf(format string, args ...any) *HybridError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *HybridError) Wrap(err error) *HybridError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a HybridError from a registered error code.
func New(code string) *HybridError {
	template, ok := registry[code]
	if !ok {
		return &HybridError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HybridError{
		Code:        code,
		Category:    template.Category,
		Message:     template.Message,
		Explanation: template.Detail,
		DocURL:      template.DocURL,
	}
}

// Newf creates a new HybridError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HybridError {
	return &HybridError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HybridError.
// Errors that already are HybridErrors are returned unchanged.
func FromError(err error, code string) *HybridError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HybridError); ok {
		return he
	}
	return New(code).Wrap(err)
}
