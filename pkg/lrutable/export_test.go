package lrutable

// SetLinksForTest overwrites the chain links of slot idx so tests can
// exercise Validate against corrupted tables.
func (t *Table[K, V]) SetLinksForTest(idx, prev, next int) {
	t.slots[idx].Prev = prev
	t.slots[idx].Next = next
}

// SetEndsForTest overwrites the oldest/latest references.
func (t *Table[K, V]) SetEndsForTest(oldest, latest int) {
	t.oldest = oldest
	t.latest = latest
}
