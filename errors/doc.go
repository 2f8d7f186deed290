// Package errors provides coded errors for the texio I/O layer.
//
// Every failure that crosses a package boundary inside texio carries an
// ErrorCode and an ErrorClassification. The classification is what the
// boundary adapter acts on: expected conditions (end of stream, a name that
// does not resolve) stay silent, reportable failures produce exactly one
// warning on the status sink, and fatal conditions abort the process.
//
// The package stays compatible with the standard library (errors.Is,
// errors.As, errors.Unwrap) so stdlib sentinels such as io.EOF and
// fs.ErrNotExist remain visible through a wrapped chain.
//
// # Quick Start
//
//	err := errors.New(errors.CodePushbackFull, "pushback slot already occupied")
//
//	n, err := f.Read(buf)
//	if err != nil {
//	    return errors.FromIO(err, "read", name)
//	}
//
//	if errors.IsReportable(err) {
//	    status.Warn(sink, err, "getc failed")
//	}
//
// # Classification
//
//   - Expected: CodeEndOfStream, CodeNotFound
//   - Fatal: CodeInvalidOrigin
//   - Reportable: everything else
//
// Wrapping preserves the classification of a wrapped Error, so an end of
// stream that travels through several layers is still silent at the top.
package errors
