package lrutable

import (
	"errors"
	"fmt"
)

// Validate checks the table's structural invariants and returns every
// violation found, joined with [errors.Join]. It returns nil for a healthy
// table.
//
//   - [ErrChainBroken]: oldest/latest disagree about emptiness, or the chain
//     does not link exactly the live slots in both directions.
//   - [ErrDuplicateKey]: a key is live in more than one slot.
//   - [ErrUnreachableKey]: an empty slot lies between a key's home slot and
//     the slot holding it.
//
// Without [Options.Compact], removals can leave the table in a state that
// fails the last two checks. The chain check always passes.
func (t *Table[K, V]) Validate() error {
	var errs []error

	errs = append(errs, t.validateChain()...)
	errs = append(errs, t.validateKeys()...)

	return errors.Join(errs...)
}

func (t *Table[K, V]) validateChain() []error {
	if (t.oldest == NoSlot) != (t.latest == NoSlot) {
		return []error{fmt.Errorf("oldest=%d latest=%d: %w", t.oldest, t.latest, ErrChainBroken)}
	}

	live := 0

	for range t.All() {
		live++
	}

	if live != t.live {
		return []error{fmt.Errorf("%d live slots, count says %d: %w", live, t.live, ErrChainBroken)}
	}

	var errs []error

	err := t.walk(t.oldest, t.latest, live, func(e Entry[K, V]) (int, int) { return e.Next, e.Prev })
	if err != nil {
		errs = append(errs, fmt.Errorf("forward: %w", err))
	}

	err = t.walk(t.latest, t.oldest, live, func(e Entry[K, V]) (int, int) { return e.Prev, e.Next })
	if err != nil {
		errs = append(errs, fmt.Errorf("backward: %w", err))
	}

	return errs
}

// walk follows links from start and checks that it visits live distinct
// slots, each pointing back at its predecessor, and stops at end after
// exactly want slots. step returns the forward and backward link of an entry.
func (t *Table[K, V]) walk(start, end, want int, step func(Entry[K, V]) (int, int)) error {
	visited := make(map[int]bool, want)
	prev := NoSlot
	idx := start

	for idx != NoSlot {
		if idx < 0 || idx >= len(t.slots) {
			return fmt.Errorf("link to slot %d out of range: %w", idx, ErrChainBroken)
		}

		entry := t.slots[idx]
		if !entry.Live {
			return fmt.Errorf("link to empty slot %d: %w", idx, ErrChainBroken)
		}

		if visited[idx] {
			return fmt.Errorf("cycle at slot %d: %w", idx, ErrChainBroken)
		}

		visited[idx] = true

		next, back := step(entry)
		if back != prev {
			return fmt.Errorf("slot %d links back to %d, want %d: %w", idx, back, prev, ErrChainBroken)
		}

		prev = idx
		idx = next
	}

	if prev != end {
		return fmt.Errorf("chain ends at slot %d, want %d: %w", prev, end, ErrChainBroken)
	}

	if len(visited) != want {
		return fmt.Errorf("chain visits %d slots, want %d: %w", len(visited), want, ErrChainBroken)
	}

	return nil
}

func (t *Table[K, V]) validateKeys() []error {
	var errs []error

	first := make(map[K]int, t.live)

	for idx, entry := range t.All() {
		if prior, ok := first[entry.Key]; ok {
			errs = append(errs, fmt.Errorf("key %v in slots %d and %d: %w", entry.Key, prior, idx, ErrDuplicateKey))

			continue
		}

		first[entry.Key] = idx

		home := t.home(entry.Key)
		if home > idx {
			errs = append(errs, fmt.Errorf("key %v in slot %d before its home slot %d: %w", entry.Key, idx, home, ErrUnreachableKey))

			continue
		}

		for probe := home; probe < idx; probe++ {
			if !t.slots[probe].Live {
				errs = append(errs, fmt.Errorf("key %v in slot %d, home %d, gap at %d: %w", entry.Key, idx, home, probe, ErrUnreachableKey))

				break
			}
		}
	}

	return errs
}
