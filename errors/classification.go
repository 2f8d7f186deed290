package errors

// ErrorClassification tells the boundary how to surface an error.
type ErrorClassification string

const (
	// ClassificationExpected marks ordinary outcomes such as end of stream
	// or an unresolved name. They are never reported.
	ClassificationExpected ErrorClassification = "EXPECTED"

	// ClassificationReportable marks unexpected failures. They produce one
	// warning on the status sink and a failure sentinel for the caller.
	ClassificationReportable ErrorClassification = "REPORTABLE"

	// ClassificationFatal marks contract violations no correct caller can
	// produce. The boundary aborts on them.
	ClassificationFatal ErrorClassification = "FATAL"
)

// IsExpected reports whether the classification is silent.
func (c ErrorClassification) IsExpected() bool {
	return c == ClassificationExpected
}

// IsReportable reports whether the classification warrants a warning.
func (c ErrorClassification) IsReportable() bool {
	return c == ClassificationReportable
}

// IsFatal reports whether the classification aborts the process.
func (c ErrorClassification) IsFatal() bool {
	return c == ClassificationFatal
}

var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeEndOfStream: ClassificationExpected,
	CodeNotFound:    ClassificationExpected,

	CodeInvalidOrigin: ClassificationFatal,

	CodeShortRead:     ClassificationReportable,
	CodeIO:            ClassificationReportable,
	CodeClosed:        ClassificationReportable,
	CodeUnsupported:   ClassificationReportable,
	CodeNetwork:       ClassificationReportable,
	CodeIntegrity:     ClassificationReportable,
	CodeInvalidHandle: ClassificationReportable,
	CodePushbackFull:  ClassificationReportable,
	CodeInvalidInput:  ClassificationReportable,
	CodeInvalidConfig: ClassificationReportable,

	CodeConfigLoadFailed: ClassificationReportable,
	CodeInternal:         ClassificationReportable,
	CodeUnknown:          ClassificationReportable,
}

// getDefaultClassification returns ClassificationReportable for codes not in
// the table, so an unknown failure is never silently dropped.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationReportable
}
