package models

import "github.com/Gobusters/ectolinq"

// ValidationLevel classifies a validation message. Errors gate run permission;
// warnings never block.
type ValidationLevel string

const (
	ValidationError   ValidationLevel = "error"
	ValidationWarning ValidationLevel = "warning"
)

// ValidationMessage is one human-readable finding from the structural or
// data-aware validator.
type ValidationMessage struct {
	Level ValidationLevel `json:"level"`
	Text  string          `json:"text"`
}

// Errors returns only the error-level messages.
func Errors(msgs []ValidationMessage) []ValidationMessage {
	return ectolinq.Filter(msgs, func(m ValidationMessage) bool {
		return m.Level == ValidationError
	})
}

// Warnings returns only the warning-level messages.
func Warnings(msgs []ValidationMessage) []ValidationMessage {
	return ectolinq.Filter(msgs, func(m ValidationMessage) bool {
		return m.Level == ValidationWarning
	})
}

// HasErrors reports whether any message blocks execution.
func HasErrors(msgs []ValidationMessage) bool {
	return len(Errors(msgs)) > 0
}
