package metrics

import (
	"errors"
	"os"
	"strings"
)

// Error type constants for classification
const (
	ErrTypeNotFound   = "not_found"
	ErrTypeParse      = "parse"
	ErrTypeIO         = "io"
	ErrTypeDatabase   = "database"
	ErrTypeValidation = "validation"
	ErrTypeUnknown    = "unknown"
)

// ClassifyError inspects an error and returns its type classification.
// This enables grouping errors by category in metrics and run traces.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, os.ErrNotExist) {
		return ErrTypeNotFound
	}

	errStrLower := strings.ToLower(err.Error())

	// Check for JSON/parse errors
	if strings.Contains(errStrLower, "json") ||
		strings.Contains(errStrLower, "decode") ||
		strings.Contains(errStrLower, "unmarshal") ||
		strings.Contains(errStrLower, "unexpected end of") ||
		strings.Contains(errStrLower, "invalid character") {
		return ErrTypeParse
	}

	// Check for sqlite/ledger errors
	if strings.Contains(errStrLower, "sql") ||
		strings.Contains(errStrLower, "database") ||
		strings.Contains(errStrLower, "constraint") {
		return ErrTypeDatabase
	}

	// Check for validation errors
	if strings.Contains(errStrLower, "validation") ||
		strings.Contains(errStrLower, "invalid") ||
		strings.Contains(errStrLower, "required") ||
		strings.Contains(errStrLower, "no token data") ||
		strings.Contains(errStrLower, "must be") {
		return ErrTypeValidation
	}

	// Check for filesystem errors
	if strings.Contains(errStrLower, "permission denied") ||
		strings.Contains(errStrLower, "read ") ||
		strings.Contains(errStrLower, "write ") ||
		strings.Contains(errStrLower, "rename") ||
		strings.Contains(errStrLower, "no such file") {
		return ErrTypeIO
	}

	return ErrTypeUnknown
}
