package boundary

import "github.com/jmgilman/texio/engine"

const (
	// Null is the token of no handle.
	Null uint64 = 0

	outputTag = 1 << 31
	slotMask  = outputTag - 1
)

// InputToken converts an input key to its boundary token.
func InputToken(k engine.InputKey) uint64 {
	if k.IsZero() {
		return Null
	}
	return uint64(k.Gen)<<32 | uint64(k.Slot&slotMask)
}

// OutputToken converts an output key to its boundary token.
func OutputToken(k engine.OutputKey) uint64 {
	if k.IsZero() {
		return Null
	}
	return uint64(k.Gen)<<32 | outputTag | uint64(k.Slot&slotMask)
}

// InputKey decodes t. Output tokens decode to the zero key, which the
// engine rejects.
func InputKey(t uint64) engine.InputKey {
	if t&outputTag != 0 {
		return engine.InputKey{}
	}
	return engine.InputKey{Slot: uint32(t & slotMask), Gen: uint32(t >> 32)}
}

// OutputKey decodes t. Input tokens decode to the zero key, which the
// engine rejects.
func OutputKey(t uint64) engine.OutputKey {
	if t&outputTag == 0 {
		return engine.OutputKey{}
	}
	return engine.OutputKey{Slot: uint32(t & slotMask), Gen: uint32(t >> 32)}
}
