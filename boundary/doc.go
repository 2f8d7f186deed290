// Package boundary exposes an engine through the flat calling convention
// of the ttstub_* interface.
//
// Handles cross the boundary as uint64 tokens. A token packs a key's
// generation in the high 32 bits, a direction tag in bit 31 (set for
// outputs) and the slot in the low 31 bits. Token 0 is the null handle;
// no live handle ever has generation 0.
//
// Failures never cross as errors. Each operation maps its outcome onto the
// sentinel the native engine expects, reports unexpected failures once on
// the engine's status sink and stays silent on end of stream and
// unresolved names. A seek origin other than 0, 1 or 2 cannot come from a
// correct caller and panics.
//
// Every entry point holds the adapter's mutex for its whole duration. Code
// that runs inside a guarded call, such as a status sink, must use With's
// engine argument instead of calling back into the adapter.
package boundary
