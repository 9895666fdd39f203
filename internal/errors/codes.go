package errors

// Code classifies an engine error.
type Code string

const (
	CodeDataLoad           Code = "DATA_LOAD"
	CodeEntryNotFound      Code = "ENTRY_NOT_FOUND"
	CodeValidation         Code = "VALIDATION"
	CodePersistence        Code = "PERSISTENCE"
	CodeInputLocked        Code = "INPUT_LOCKED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
)

func (c Code) String() string {
	return string(c)
}

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrEntryNotFound      = coded(CodeEntryNotFound, "entry not found")
	ErrValidation         = coded(CodeValidation, "validation failed")
	ErrPersistence        = coded(CodePersistence, "persistence failed")
	ErrInputLocked        = coded(CodeInputLocked, "choice input is locked")
	ErrFailedPrecondition = coded(CodeFailedPrecondition, "failed precondition")
)
