package lrutable_test

import (
	"testing"

	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

// identity places integer keys at slot key mod capacity.
func identity(key int) uint64 {
	return uint64(key)
}

// constant sends every key to slot 0, forcing one long probe run.
func constant(int) uint64 {
	return 0
}

// chainKeys walks the recency chain from oldest to latest. It fails the test
// if the walk does not terminate within Len steps.
func chainKeys[K comparable, V any](tb testing.TB, table *lrutable.Table[K, V]) []K {
	tb.Helper()

	var keys []K

	entry := table.Oldest()
	for entry.Live {
		keys = append(keys, entry.Key)
		if len(keys) > table.Len() {
			tb.Fatalf("chain longer than Len()=%d: %v", table.Len(), keys)
		}

		entry = table.At(entry.Next)
	}

	return keys
}

// reverseChainKeys walks the recency chain from latest to oldest.
func reverseChainKeys[K comparable, V any](tb testing.TB, table *lrutable.Table[K, V]) []K {
	tb.Helper()

	var keys []K

	entry := table.Latest()
	for entry.Live {
		keys = append(keys, entry.Key)
		if len(keys) > table.Len() {
			tb.Fatalf("reverse chain longer than Len()=%d: %v", table.Len(), keys)
		}

		entry = table.At(entry.Prev)
	}

	return keys
}

func assertGet[K comparable, V comparable](tb testing.TB, table *lrutable.Table[K, V], key K, want V) {
	tb.Helper()

	got, ok := table.Get(key)
	if !ok {
		tb.Errorf("Get(%v): absent, want %v", key, want)

		return
	}

	if got != want {
		tb.Errorf("Get(%v)=%v, want %v", key, got, want)
	}
}

func assertAbsent[K comparable, V any](tb testing.TB, table *lrutable.Table[K, V], key K) {
	tb.Helper()

	got, ok := table.Get(key)
	if ok {
		tb.Errorf("Get(%v)=%v, want absent", key, got)
	}
}
