// Package delta implements the positional byte diff between two versions of
// a file and its replay.
//
// A file's change list is an ordered sequence of Change values. Each Change
// addresses a zero-based byte offset and either writes a byte there (Update)
// or marks the byte as removed (Delete). Replay works on a sparse Buffer so
// that deletions never shift the offsets of later changes.
package delta

import (
	"errors"
	"fmt"
)

// Kind discriminates the two change variants.
type Kind uint8

const (
	// Update writes Change.Value at Change.Index.
	Update Kind = iota + 1
	// Delete removes the byte at Change.Index.
	Delete
)

func (k Kind) String() string {
	switch k {
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Update, Delete:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown change kind %d", uint8(k))
	}
}

// UnmarshalText decodes a name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "update":
		*k = Update
	case "delete":
		*k = Delete
	default:
		return fmt.Errorf("unknown change kind %q", text)
	}
	return nil
}

// Change is a single positional byte operation. Value is meaningful only when
// Kind is Update.
type Change struct {
	Index int  `json:"index"`
	Kind  Kind `json:"kind"`
	Value byte `json:"value"`
}

// UpdateAt returns an Update change.
func UpdateAt(index int, value byte) Change {
	return Change{Index: index, Kind: Update, Value: value}
}

// DeleteAt returns a Delete change.
func DeleteAt(index int) Change {
	return Change{Index: index, Kind: Delete}
}

func (c Change) String() string {
	if c.Kind == Delete {
		return fmt.Sprintf("delete@%d", c.Index)
	}
	return fmt.Sprintf("update@%d=%d", c.Index, c.Value)
}

// Full returns the change list that creates current from nothing: one Update
// per byte.
func Full(current []byte) []Change {
	changes := make([]Change, len(current))
	for i, b := range current {
		changes[i] = UpdateAt(i, b)
	}
	return changes
}

// Diff compares current against baseline position by position. The shorter
// side is padded with absent slots. An Update is emitted wherever current has
// a byte that baseline lacks or differs from; a Delete wherever current is
// absent. Identical inputs yield nil.
func Diff(current, baseline []byte) []Change {
	var changes []Change
	n := max(len(current), len(baseline))
	for i := 0; i < n; i++ {
		if i >= len(current) {
			changes = append(changes, DeleteAt(i))
			continue
		}
		if i >= len(baseline) || current[i] != baseline[i] {
			changes = append(changes, UpdateAt(i, current[i]))
		}
	}
	return changes
}

// ErrOutOfRange is returned when a Delete addresses a slot past the buffer.
var ErrOutOfRange = errors.New("change index out of range")

type slot struct {
	value   byte
	present bool
}

// Buffer is a file under edit: a sequence of optional bytes.
type Buffer struct {
	slots []slot
}

// NewBuffer returns a buffer holding data with every slot present.
func NewBuffer(data []byte) *Buffer {
	slots := make([]slot, len(data))
	for i, b := range data {
		slots[i] = slot{value: b, present: true}
	}
	return &Buffer{slots: slots}
}

// Len returns the number of slots, present or absent.
func (b *Buffer) Len() int {
	return len(b.slots)
}

// Apply executes one change. An Update past the end grows the buffer with
// absent slots up to and including the target index.
func (b *Buffer) Apply(c Change) error {
	if c.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrOutOfRange, c.Index)
	}

	switch c.Kind {
	case Update:
		if c.Index >= len(b.slots) {
			grown := make([]slot, c.Index+1)
			copy(grown, b.slots)
			b.slots = grown
		}
		b.slots[c.Index] = slot{value: c.Value, present: true}
	case Delete:
		if c.Index >= len(b.slots) {
			return fmt.Errorf("%w: delete at %d, length %d", ErrOutOfRange, c.Index, len(b.slots))
		}
		b.slots[c.Index] = slot{}
	default:
		return fmt.Errorf("unknown change kind %v", c.Kind)
	}
	return nil
}

// ApplyAll executes changes in order.
func (b *Buffer) ApplyAll(changes []Change) error {
	for _, c := range changes {
		if err := b.Apply(c); err != nil {
			return err
		}
	}
	return nil
}

// Bytes compacts the buffer, dropping absent slots and keeping order.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, len(b.slots))
	for _, s := range b.slots {
		if s.present {
			out = append(out, s.value)
		}
	}
	return out
}

// Replay applies changes to baseline and returns the result.
func Replay(baseline []byte, changes []Change) ([]byte, error) {
	buf := NewBuffer(baseline)
	if err := buf.ApplyAll(changes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
