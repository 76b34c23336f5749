package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// InvalidStateTransitionError rejects an operation that would move an
// assignment (or one of its items) backwards or past a terminal state.
type InvalidStateTransitionError struct {
	Resource string
	Detail   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition for %s: %s", e.Resource, e.Detail)
}

func NewInvalidStateTransition(resource, detail string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Resource: resource, Detail: detail}
}

// InsufficientStockError rejects a movement that would drive a base's
// on-hand quantity below zero.
type InsufficientStockError struct {
	AssetID int
	BaseID  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for asset %d at base %d", e.AssetID, e.BaseID)
}
