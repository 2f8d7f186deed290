package errors

import "errors"

// WithContext returns a copy of err with one more context field.
// Existing fields are kept; a plain error is converted with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "handle", key.String())
func WithContext(err error, key string, value interface{}) Error {
	if err == nil {
		return nil
	}

	coded := asCoded(err)
	ctx := coded.Context()
	if ctx == nil {
		ctx = make(map[string]interface{}, 1)
	}
	ctx[key] = value

	return &codedError{
		code:           coded.Code(),
		classification: coded.Classification(),
		message:        coded.Message(),
		context:        ctx,
		cause:          coded.Unwrap(),
	}
}

// asCoded finds the outermost Error in the chain or converts err into one.
func asCoded(err error) Error {
	var coded Error
	if errors.As(err, &coded) {
		return coded
	}
	return &codedError{
		code:           CodeUnknown,
		classification: getDefaultClassification(CodeUnknown),
		message:        err.Error(),
		cause:          err,
	}
}

// WithClassification returns a copy of err with its classification
// replaced. Returns nil if err is nil.
//
// Example:
//
//	// a failed seek is never an end of stream, whatever its cause says
//	err = errors.WithClassification(errors.Wrap(err, errors.CodeIO, "seek failed"), errors.ClassificationReportable)
func WithClassification(err error, class ErrorClassification) Error {
	if err == nil {
		return nil
	}

	coded := asCoded(err)
	return &codedError{
		code:           coded.Code(),
		classification: class,
		message:        coded.Message(),
		context:        coded.Context(),
		cause:          coded.Unwrap(),
	}
}
