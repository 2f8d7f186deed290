package errors

// Error extends the standard error interface with a code, a classification
// and optional context metadata.
//
// Error values are immutable; helpers such as WithContext return a new
// value. Error supports errors.Is, errors.As and errors.Unwrap.
type Error interface {
	error

	// Code returns the error code identifying the failure.
	Code() ErrorCode

	// Classification returns how the boundary must surface the error.
	Classification() ErrorClassification

	// Message returns the human-readable message without the cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}

// codedError is the concrete implementation of Error.
type codedError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error formats as "[CODE] message" or "[CODE] message: cause".
func (e *codedError) Error() string {
	if e.cause != nil {
		return "[" + string(e.code) + "] " + e.message + ": " + e.cause.Error()
	}
	return "[" + string(e.code) + "] " + e.message
}

func (e *codedError) Code() ErrorCode {
	return e.code
}

func (e *codedError) Classification() ErrorClassification {
	return e.classification
}

func (e *codedError) Message() string {
	return e.message
}

// Context returns a copy of the context map so callers cannot mutate it.
func (e *codedError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	return copyContext(e.context)
}

func (e *codedError) Unwrap() error {
	return e.cause
}

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
