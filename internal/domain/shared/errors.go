package shared

// DomainError is an error with a stable machine-readable code. The transport
// layer maps codes to HTTP statuses; the message is safe to show to clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string { return e.Message }

// Is matches any DomainError with the same code, so errors.Is works against
// the sentinels below even when a caller constructed its own instance.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Sentinel errors shared across aggregates.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDuplicateName       = NewDomainError("DUPLICATE_NAME", "A resource with this name already exists")
	ErrPriorityOutOfRange  = NewDomainError("PRIORITY_OUT_OF_RANGE", "Priority is outside the allowed range")
	ErrNoChange            = NewDomainError("NO_CHANGE", "The requested change matches the current state")
	ErrHasDependents       = NewDomainError("HAS_DEPENDENTS", "Resource is still referenced by dependent records")
)
