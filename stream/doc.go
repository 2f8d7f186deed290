// Package stream defines the byte streams that back engine handles.
//
// A Stream is a readable, writable, seekable, closable byte sequence with a
// name, a best-effort size and an explicit flush. The set of variants is
// closed: only this package can implement Stream, and every backend builds
// its streams from the constructors here.
//
//   - File: random access over an io.ReadSeekCloser (go-billy files, objects)
//   - Entry: read-only random access over an io.ReaderAt of known size
//   - Gzip: transparent decompression of another Stream
//   - GzipWriter: transparent compression into another Stream
//   - Sink: write-only pass-through to a process stream such as stdout
//   - Spool: write-only buffer committed by a callback on Close
//
// Read follows io.Reader and returns a bare io.EOF at end of stream so that
// io.ReadFull and friends keep working. Every other failure is a coded error
// from package errors; operations a variant cannot perform fail with
// CodeUnsupported and writes never succeed partially.
package stream
