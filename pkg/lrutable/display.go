package lrutable

import (
	"fmt"
	"io"
	"strconv"
)

// Display writes one line per live slot in physical index order:
//
//	index=<i> key=<key> value=<value> prev=<index|-> next=<index|->
//
// It is a diagnostic dump, not a recency-ordered listing.
func (t *Table[K, V]) Display(w io.Writer) error {
	for i, entry := range t.All() {
		_, err := fmt.Fprintf(w, "index=%d key=%v value=%v prev=%s next=%s\n",
			i, entry.Key, entry.Value, formatLink(entry.Prev), formatLink(entry.Next))
		if err != nil {
			return fmt.Errorf("display slot %d: %w", i, err)
		}
	}

	return nil
}

func formatLink(idx int) string {
	if idx == NoSlot {
		return "-"
	}

	return strconv.Itoa(idx)
}
