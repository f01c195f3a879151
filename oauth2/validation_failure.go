package oauth2

import "github.com/pkg/errors"

// ValidationFailure is a protocol-level rejection of a token request. It is
// data, not a fault: the pipeline returns it through normal error flow and
// the orchestrator maps it 1:1 onto the error/error_description response
// fields. It carries no stack or cause.
type ValidationFailure struct {
	Code        ErrorCode
	Description string
}

// NewValidationFailure creates a failure with the given code and description.
func NewValidationFailure(code ErrorCode, description string) *ValidationFailure {
	return &ValidationFailure{Code: code, Description: description}
}

func (f *ValidationFailure) Error() string {
	if f.Description == "" {
		return string(f.Code)
	}
	return string(f.Code) + ": " + f.Description
}

// AsValidationFailure recovers a ValidationFailure from an error chain.
// Wrapped infrastructure errors return (nil, false) and are mapped to
// internal_error at the orchestrator boundary.
func AsValidationFailure(err error) (*ValidationFailure, bool) {
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
