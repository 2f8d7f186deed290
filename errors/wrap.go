package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err with a code and message while preserving the chain.
//
// If err already carries an Error, its classification is kept: an end of
// stream wrapped as CodeIO by an intermediate layer stays expected.
// Returns nil if err is nil.
//
// Example:
//
//	if _, err := f.Seek(off, whence); err != nil {
//	    return errors.Wrap(err, errors.CodeIO, "seek failed")
//	}
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}
	return &codedError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodeIO, "open failed", map[string]interface{}{
//	    "name": name,
//	    "kind": kind.String(),
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}
	return &codedError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}

func inheritClassification(err error, code ErrorCode) ErrorClassification {
	var coded Error
	if errors.As(err, &coded) {
		return coded.Classification()
	}
	return getDefaultClassification(code)
}
