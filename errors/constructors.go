package errors

import "fmt"

// New creates an Error with the given code and message. The classification
// comes from the code's default.
//
// Example:
//
//	err := errors.New(errors.CodePushbackFull, "pushback slot already occupied")
func New(code ErrorCode, message string) Error {
	return &codedError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates an Error with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeShortRead, "wanted %d bytes, got %d", len(p), n)
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}
