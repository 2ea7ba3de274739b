package lrutable

import (
	"fmt"
	"iter"

	"github.com/rs/zerolog"
)

// NoSlot marks an absent slot index in [Entry] links and in the table's
// oldest/latest references.
const NoSlot = -1

// Entry is the observable state of a single slot.
//
// Prev and Next link live entries in recency order and hold [NoSlot] at the
// ends of the chain. They are meaningless when Live is false.
type Entry[K comparable, V any] struct {
	Live  bool
	Key   K
	Value V
	Prev  int
	Next  int
}

func emptyEntry[K comparable, V any]() Entry[K, V] {
	return Entry[K, V]{Prev: NoSlot, Next: NoSlot}
}

// Options configure a [Table].
type Options[K comparable] struct {
	// Hasher computes home slots. Nil selects [DefaultHasher].
	Hasher Hasher[K]

	// Logger receives Debug-level traces of every mutation. Nil disables
	// tracing.
	Logger *zerolog.Logger

	// Compact enables backward-shift deletion on [Table.Remove]. See the
	// package documentation.
	Compact bool
}

// Table is a fixed-capacity open-addressed hash table with an embedded
// recency chain.
//
// A Table must be obtained via [New] or [NewWithOptions].
type Table[K comparable, V any] struct {
	slots  []Entry[K, V]
	oldest int
	latest int
	live   int

	hash    Hasher[K]
	log     zerolog.Logger
	compact bool
}

// New returns an empty table with capacity slots and default options.
//
// New panics if capacity is negative. A zero-capacity table is valid but
// rejects every insert with [ErrProbeExhausted].
func New[K comparable, V any](capacity int) *Table[K, V] {
	return NewWithOptions[K, V](capacity, Options[K]{})
}

// NewWithOptions is like [New] but applies opts.
func NewWithOptions[K comparable, V any](capacity int, opts Options[K]) *Table[K, V] {
	if capacity < 0 {
		panic(fmt.Sprintf("lrutable: negative capacity %d", capacity))
	}

	hash := opts.Hasher
	if hash == nil {
		hash = DefaultHasher[K]()
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	slots := make([]Entry[K, V], capacity)
	for i := range slots {
		slots[i] = emptyEntry[K, V]()
	}

	return &Table[K, V]{
		slots:   slots,
		oldest:  NoSlot,
		latest:  NoSlot,
		hash:    hash,
		log:     log,
		compact: opts.Compact,
	}
}

// Cap returns the number of slots.
func (t *Table[K, V]) Cap() int {
	return len(t.slots)
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return t.live
}

// Insert stores value under key and makes key the latest entry.
//
// Updating an existing key keeps its slot and moves it to the newest end of
// the recency chain.
//
// Insert panics with an error wrapping [ErrProbeExhausted] if no slot can be
// found for key. Use [Table.TryInsert] to handle that case.
func (t *Table[K, V]) Insert(key K, value V) {
	err := t.TryInsert(key, value)
	if err != nil {
		panic(err)
	}
}

// TryInsert is like [Table.Insert] but returns an error wrapping
// [ErrProbeExhausted] instead of panicking. The table is unchanged on error.
func (t *Table[K, V]) TryInsert(key K, value V) error {
	home, idx, ok := t.resolve(key)
	if !ok {
		return fmt.Errorf("insert key %v (home slot %d, capacity %d): %w", key, home, len(t.slots), ErrProbeExhausted)
	}

	if t.slots[idx].Live {
		t.unlink(idx)
	} else {
		t.live++
	}

	t.slots[idx] = Entry[K, V]{
		Live:  true,
		Key:   key,
		Value: value,
		Prev:  t.latest,
		Next:  NoSlot,
	}

	if t.latest == NoSlot {
		t.oldest = idx
	} else {
		t.slots[t.latest].Next = idx
	}

	t.latest = idx

	t.log.Debug().
		Interface("key", key).
		Int("home", home).
		Int("index", idx).
		Int("oldest", t.oldest).
		Int("latest", t.latest).
		Msg("insert")

	return nil
}

// Remove deletes key and reports whether it was present.
// Removing an absent key is a no-op.
func (t *Table[K, V]) Remove(key K) bool {
	_, idx, ok := t.resolve(key)
	if !ok || !t.slots[idx].Live {
		t.log.Debug().Interface("key", key).Msg("remove: absent")

		return false
	}

	t.unlink(idx)
	t.slots[idx] = emptyEntry[K, V]()
	t.live--

	if t.compact {
		t.shiftBack(idx)
	}

	t.log.Debug().
		Interface("key", key).
		Int("index", idx).
		Int("oldest", t.oldest).
		Int("latest", t.latest).
		Msg("remove")

	return true
}

// Get returns the value stored under key. It does not touch recency order.
func (t *Table[K, V]) Get(key K) (V, bool) {
	_, idx, ok := t.resolve(key)
	if !ok || !t.slots[idx].Live {
		var zero V

		return zero, false
	}

	return t.slots[idx].Value, true
}

// Oldest returns a copy of the least recently written live entry, or an
// empty entry if the table is empty.
func (t *Table[K, V]) Oldest() Entry[K, V] {
	return t.At(t.oldest)
}

// Latest returns a copy of the most recently written live entry, or an
// empty entry if the table is empty.
func (t *Table[K, V]) Latest() Entry[K, V] {
	return t.At(t.latest)
}

// At returns a copy of the slot at index. Indexes outside [0, Cap) yield an
// empty entry.
func (t *Table[K, V]) At(index int) Entry[K, V] {
	if index < 0 || index >= len(t.slots) {
		return emptyEntry[K, V]()
	}

	return t.slots[index]
}

// All yields every live slot in physical index order.
//
// This is not recency order; follow [Entry.Next] from [Table.Oldest] for that.
func (t *Table[K, V]) All() iter.Seq2[int, Entry[K, V]] {
	return func(yield func(int, Entry[K, V]) bool) {
		for i, entry := range t.slots {
			if !entry.Live {
				continue
			}

			if !yield(i, entry) {
				return
			}
		}
	}
}

// resolve returns key's home slot and the index of the slot that holds key,
// or of the first empty slot on its probe sequence. ok is false if the scan
// reaches the end of the array first.
func (t *Table[K, V]) resolve(key K) (int, int, bool) {
	if len(t.slots) == 0 {
		return 0, NoSlot, false
	}

	home := t.home(key)

	for idx := home; idx < len(t.slots); idx++ {
		slot := &t.slots[idx]
		if !slot.Live || slot.Key == key {
			return home, idx, true
		}
	}

	return home, NoSlot, false
}

func (t *Table[K, V]) home(key K) int {
	return int(t.hash(key) % uint64(len(t.slots)))
}

// unlink splices the live slot idx out of the recency chain.
func (t *Table[K, V]) unlink(idx int) {
	entry := &t.slots[idx]

	if entry.Prev != NoSlot {
		t.slots[entry.Prev].Next = entry.Next
	}

	if entry.Next != NoSlot {
		t.slots[entry.Next].Prev = entry.Prev
	}

	if t.oldest == idx {
		t.oldest = entry.Next
	}

	if t.latest == idx {
		t.latest = entry.Prev
	}

	entry.Prev = NoSlot
	entry.Next = NoSlot
}

// shiftBack closes the gap left at slot gap by moving later members of the
// same probe run back towards their home slots.
func (t *Table[K, V]) shiftBack(gap int) {
	for idx := gap + 1; idx < len(t.slots) && t.slots[idx].Live; idx++ {
		if t.home(t.slots[idx].Key) > gap {
			continue
		}

		t.move(idx, gap)
		gap = idx
	}
}

// move relocates the live slot from into the empty slot to, keeping its
// position in the recency chain.
func (t *Table[K, V]) move(from, to int) {
	entry := t.slots[from]

	if entry.Prev != NoSlot {
		t.slots[entry.Prev].Next = to
	}

	if entry.Next != NoSlot {
		t.slots[entry.Next].Prev = to
	}

	if t.oldest == from {
		t.oldest = to
	}

	if t.latest == from {
		t.latest = to
	}

	t.slots[to] = entry
	t.slots[from] = emptyEntry[K, V]()

	t.log.Debug().Int("from", from).Int("to", to).Msg("shift")
}
