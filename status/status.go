// Package status carries diagnostics from the I/O layer to whoever hosts
// the engine: a log, a terminal, or a test.
package status

import "fmt"

// Kind is the severity of a report.
type Kind int

const (
	Note Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sink receives reports. The boundary adapter delivers them after releasing
// its lock, so a sink may write through the adapter; it must not use an
// engine directly.
type Sink interface {
	Report(kind Kind, msg string, err error)
}

// Warn reports a formatted warning with an optional cause.
func Warn(s Sink, err error, format string, args ...any) {
	s.Report(Warning, fmt.Sprintf(format, args...), err)
}

// Notef reports a formatted note.
func Notef(s Sink, format string, args ...any) {
	s.Report(Note, fmt.Sprintf(format, args...), nil)
}

type nop struct{}

func (nop) Report(Kind, string, error) {}

// Nop discards every report.
var Nop Sink = nop{}
