package errors

import (
	"errors"
	"fmt"
)

// Error is an engine failure tagged with a Code. Under errors.Is two
// Errors are equal when their codes are.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func coded(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapWithCode tags err with code. A nil err stays nil.
func WrapWithCode(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// WrapWithCodef is WrapWithCode with a formatted message.
func WrapWithCodef(err error, code Code, format string, args ...interface{}) error {
	return WrapWithCode(err, code, fmt.Sprintf(format, args...))
}

// EntryNotFound reports an identifier that resolves in neither entry set.
func EntryNotFound(entryID string) *Error {
	return coded(CodeEntryNotFound, "entry not found: %s", entryID)
}

func Persistencef(format string, args ...interface{}) *Error {
	return coded(CodePersistence, format, args...)
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return coded(CodeInvalidArgument, format, args...)
}

func FailedPreconditionf(format string, args ...interface{}) *Error {
	return coded(CodeFailedPrecondition, format, args...)
}

// GetCode returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// As forwards to the standard errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
