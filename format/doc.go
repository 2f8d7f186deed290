// Package format classifies the numeric file-format codes a TeX engine
// passes when it asks for an input.
//
// The codes are kpathsea's kpse_file_format_type values. Only the kinds the
// engine actually requests are recognized; every other code is rejected and
// never silently mapped to a default kind.
//
//	kind, ok := format.Classify(26)
//	if !ok {
//	    return 0 // unrecognized format code
//	}
//	names := format.Candidates("plain", kind) // ["plain", "plain.tex"]
package format
