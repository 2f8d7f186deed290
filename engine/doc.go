// Package engine implements stdio-compatible input and output handles on
// top of a backend.
//
// An Engine owns two arenas of handles, one per direction, addressed by
// generation-checked keys. A key stays valid from the open that returned it
// until its close; after that the slot's generation moves on and the stale
// key is rejected with errors.CodeInvalidHandle, even if the slot is reused.
//
// Input handles behave like a FILE* opened for reading:
//
//   - one byte of pushback (ungetc), consumed before the stream
//   - an end-of-file flag set when getc hits the end and cleared by a
//     successful seek or an ungetc
//   - reads that either fill the whole buffer or fail
//
// Output handles are buffered; writes are all-or-nothing and close always
// releases the handle, even when the final flush fails.
//
// The engine is not safe for concurrent use. Callers serialize access, as
// the boundary package does.
package engine
