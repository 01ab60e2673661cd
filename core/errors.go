package core

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports missing or malformed input. Maps to 400.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing entity. Maps to 404.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{message: msg}
}

func (err NotFoundError) Error() string { return err.message }

// ConflictError reports a duplicate resource. Maps to 409.
type ConflictError struct {
	message string
}

func NewConflictError(msg string) error {
	return &ConflictError{message: msg}
}

func (err ConflictError) Error() string { return err.message }

// AuthenticationError reports bad credentials. Maps to 401.
type AuthenticationError struct {
	message string
}

func NewAuthenticationError(msg string) error {
	return &AuthenticationError{message: msg}
}

func (err AuthenticationError) Error() string { return err.message }

// PermissionError reports an account that may not perform the operation
// (e.g. not yet approved). Maps to 403.
type PermissionError struct {
	message string
}

func NewPermissionError(msg string) error {
	return &PermissionError{message: msg}
}

func (err PermissionError) Error() string { return err.message }

type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals the server to gracefully shut down.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

func IsShutdown(err error) bool {
	_, ok := err.(*shutdown)
	return ok
}
