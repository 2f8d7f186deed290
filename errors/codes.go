package errors

// ErrorCode represents a specific error condition.
// Codes are strings so they read well in logs and status reports.
type ErrorCode string

const (
	// Stream conditions.

	// CodeEndOfStream indicates the stream has no more bytes at the current position.
	CodeEndOfStream ErrorCode = "END_OF_STREAM"

	// CodeShortRead indicates fewer bytes were available than a read required.
	CodeShortRead ErrorCode = "SHORT_READ"

	// CodeIO indicates a backend read, write, seek, flush or close failed.
	CodeIO ErrorCode = "IO_ERROR"

	// CodeClosed indicates an operation on a stream that was already closed.
	CodeClosed ErrorCode = "CLOSED"

	// CodeUnsupported indicates the stream or backend cannot perform the operation.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// Resolution.

	// CodeNotFound indicates a name could not be resolved by any backend.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeNetwork indicates a remote backend could not be reached.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeIntegrity indicates a bundle did not match its expected digest.
	CodeIntegrity ErrorCode = "INTEGRITY_ERROR"

	// Handle contract.

	// CodeInvalidHandle indicates a handle key that is not live.
	CodeInvalidHandle ErrorCode = "INVALID_HANDLE"

	// CodePushbackFull indicates a second ungetc before the first byte was consumed.
	CodePushbackFull ErrorCode = "PUSHBACK_FULL"

	// CodeInvalidOrigin indicates a seek origin outside start/current/end.
	CodeInvalidOrigin ErrorCode = "INVALID_SEEK_ORIGIN"

	// CodeInvalidInput indicates an argument outside its valid domain.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration.

	// CodeInvalidConfig indicates configuration failed validation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeConfigLoadFailed indicates a configuration file could not be read or parsed.
	CodeConfigLoadFailed ErrorCode = "CONFIG_LOAD_FAILED"

	// System.

	// CodeInternal indicates an internal invariant was broken.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
