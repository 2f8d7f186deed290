package errors

import (
	stderrors "errors"
	"io"
	"io/fs"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Join returns an error wrapping the given errors, ignoring nils.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// GetCode extracts the code of the outermost Error in the chain.
// Returns CodeUnknown for nil or uncoded errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	var coded Error
	if stderrors.As(err, &coded) {
		return coded.Code()
	}
	return CodeUnknown
}

// GetClassification extracts the classification of the outermost Error.
// Plain errors are reportable so that they are never silently dropped.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationExpected
	}
	var coded Error
	if stderrors.As(err, &coded) {
		return coded.Classification()
	}
	return ClassificationReportable
}

// IsExpected reports whether err is an ordinary, silent outcome.
func IsExpected(err error) bool {
	return err != nil && GetClassification(err).IsExpected()
}

// IsReportable reports whether err must be surfaced as a warning.
func IsReportable(err error) bool {
	return err != nil && GetClassification(err).IsReportable()
}

// IsFatal reports whether err is a contract violation.
func IsFatal(err error) bool {
	return err != nil && GetClassification(err).IsFatal()
}

// IsNotFound reports whether err means a name did not resolve.
func IsNotFound(err error) bool {
	return err != nil && GetCode(err) == CodeNotFound
}

// IsEndOfStream reports whether err means the stream ran out of bytes.
// Plain io.EOF and io.ErrUnexpectedEOF count as well.
func IsEndOfStream(err error) bool {
	if err == nil {
		return false
	}
	if GetCode(err) == CodeEndOfStream {
		return true
	}
	return stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF)
}

// FromIO converts an error returned by a stdlib or backend I/O call into an
// Error. Already coded errors pass through unchanged. The op and name are
// attached as context.
//
//   - io.EOF, io.ErrUnexpectedEOF: CodeEndOfStream
//   - fs.ErrNotExist: CodeNotFound
//   - fs.ErrClosed: CodeClosed
//   - anything else: CodeIO
func FromIO(err error, op, name string) Error {
	if err == nil {
		return nil
	}

	var coded Error
	if stderrors.As(err, &coded) {
		return coded
	}

	code := CodeIO
	switch {
	case stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		code = CodeEndOfStream
	case stderrors.Is(err, fs.ErrNotExist):
		code = CodeNotFound
	case stderrors.Is(err, fs.ErrClosed):
		code = CodeClosed
	}

	return &codedError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        op + " failed",
		context:        map[string]interface{}{"op": op, "name": name},
		cause:          err,
	}
}
