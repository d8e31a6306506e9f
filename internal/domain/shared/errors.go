package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error code constants for recoverable domain failures.
// AlreadyPosted and AlreadyPaid are reported distinctly from the generic
// invalid-state code so callers can treat the repeat of an already-applied
// operation as a no-op instead of an error.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidState           = "INVALID_STATE"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeUnbalancedEntry        = "UNBALANCED_ENTRY"
	CodeAlreadyPosted          = "ALREADY_POSTED"
	CodeAlreadyPaid            = "ALREADY_PAID"
	CodeNoMatchCondition       = "NO_MATCH_CONDITION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeMissingLedgerConfig    = "MISSING_LEDGER_CONFIGURATION"
	CodeInternal               = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrentModification, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrAlreadyPosted       = NewDomainError(CodeAlreadyPosted, "Record has already been posted")
	ErrAlreadyPaid         = NewDomainError(CodeAlreadyPaid, "Document has already been fully paid")
)

// NewInvalidStateError builds an INVALID_STATE error reporting the expected
// versus actual lifecycle state.
func NewInvalidStateError(operation, expected, actual string) *DomainError {
	return NewDomainError(CodeInvalidState,
		fmt.Sprintf("%s requires state %s, current state is %s", operation, expected, actual))
}

// NewNotFoundError builds a NOT_FOUND error reporting the entity kind and id.
func NewNotFoundError(kind string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", kind, id))
}

// NewConflictError builds a CONFLICT error reporting the conflicting field.
func NewConflictError(field, value string) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf("duplicate %s: %s", field, value))
}
