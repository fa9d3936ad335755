package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// DatabaseError wraps a failed remote document store call.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError marks a backend that could not be reached. Transient
// errors (unavailable, deadline) are expected to clear on their own.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// CacheError wraps a local cache read or write failure.
type CacheError struct {
	ErrorMessage
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %q: %s: %v", e.Key, e.Message, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewCacheError(key, message string, err error) *CacheError {
	return &CacheError{
		ErrorMessage: ErrorMessage{Message: message},
		Key:          key,
		Err:          err,
	}
}
