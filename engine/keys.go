package engine

import "fmt"

// InputKey addresses an open input handle. The zero key is never valid.
type InputKey struct {
	Slot uint32
	Gen  uint32
}

// IsZero reports whether k is the zero key.
func (k InputKey) IsZero() bool { return k.Gen == 0 }

func (k InputKey) String() string { return fmt.Sprintf("in:%d/%d", k.Slot, k.Gen) }

// OutputKey addresses an open output handle. The zero key is never valid.
type OutputKey struct {
	Slot uint32
	Gen  uint32
}

// IsZero reports whether k is the zero key.
func (k OutputKey) IsZero() bool { return k.Gen == 0 }

func (k OutputKey) String() string { return fmt.Sprintf("out:%d/%d", k.Slot, k.Gen) }
