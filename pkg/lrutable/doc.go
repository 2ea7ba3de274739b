// Package lrutable provides a fixed-capacity, open-addressed hash table that
// remembers the order in which its live entries were last written.
//
// Every slot of the backing array doubles as a node of a doubly linked
// recency chain. The links are slot indices, not pointers, so an [Entry] can
// be copied freely and the whole table is a single slice.
//
// # Basic Usage
//
//	t := lrutable.New[string, int](1024)
//	t.Insert("a", 1)
//	t.Insert("b", 2)
//	t.Insert("a", 3) // update moves "a" to the newest position
//
//	t.Oldest().Key // "b"
//	t.Latest().Key // "a"
//
// # Probing
//
// A key's home slot is hash(key) mod capacity. Collisions are resolved by
// scanning forward from the home slot to the first empty or matching slot.
// The scan does not wrap around: when it runs off the end of the array the
// insert fails with [ErrProbeExhausted]. [Table.Insert] panics in that case,
// [Table.TryInsert] returns the error. Size the table generously.
//
// Lookups never surface [ErrProbeExhausted]: insert never places a key past
// the end of the array, so [Table.Get] and [Table.Remove] report a key whose
// scan runs off the end as absent.
//
// # Removal
//
// By default a removed slot is simply cleared. There are no tombstones, so a
// key whose probe sequence crossed the cleared slot can no longer be found by
// [Table.Get] or [Table.Remove], and inserting it again stores a second copy.
// [Table.Validate] reports such tables with [ErrUnreachableKey] and
// [ErrDuplicateKey]. The recency chain itself stays consistent.
//
// [Options.Compact] enables backward-shift deletion: entries after the cleared
// slot are moved back into the gap so every key stays reachable. This departs
// from the plain clearing behavior and is off by default.
//
// # Concurrency
//
// A Table is not safe for concurrent use. Callers must serialize access.
package lrutable
