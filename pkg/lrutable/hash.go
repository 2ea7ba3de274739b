package lrutable

import (
	"hash/maphash"
	"math"
)

// Hasher maps a key to a 64-bit hash. It must be deterministic for the
// lifetime of the table.
type Hasher[K comparable] func(key K) uint64

// FNV-1a 64-bit constants.
const (
	fnv1aOffsetBasis uint64 = 14695981039346656037
	fnv1aPrime       uint64 = 1099511628211
)

// fallbackSeed hashes key types the default hasher has no byte encoding for.
var fallbackSeed = maphash.MakeSeed()

// DefaultHasher returns the hasher used when [Options.Hasher] is nil.
//
// Strings, booleans, integers and floats are hashed with FNV-1a over a fixed
// little-endian encoding, so their home slots are stable across runs. Any
// other comparable type (including named types) uses [maphash.Comparable]
// with a per-process seed.
func DefaultHasher[K comparable]() Hasher[K] {
	return func(key K) uint64 {
		switch k := any(key).(type) {
		case string:
			return fnv1a64String(k)
		case bool:
			if k {
				return fnv1a64Uint(1)
			}

			return fnv1a64Uint(0)
		case int:
			return fnv1a64Uint(uint64(k))
		case int8:
			return fnv1a64Uint(uint64(k))
		case int16:
			return fnv1a64Uint(uint64(k))
		case int32:
			return fnv1a64Uint(uint64(k))
		case int64:
			return fnv1a64Uint(uint64(k))
		case uint:
			return fnv1a64Uint(uint64(k))
		case uint8:
			return fnv1a64Uint(uint64(k))
		case uint16:
			return fnv1a64Uint(uint64(k))
		case uint32:
			return fnv1a64Uint(uint64(k))
		case uint64:
			return fnv1a64Uint(k)
		case uintptr:
			return fnv1a64Uint(uint64(k))
		case float32:
			return fnv1a64Float(float64(k))
		case float64:
			return fnv1a64Float(k)
		default:
			return maphash.Comparable(fallbackSeed, key)
		}
	}
}

// fnv1a64String computes the FNV-1a 64-bit hash over the bytes of s.
func fnv1a64String(s string) uint64 {
	hash := fnv1aOffsetBasis

	for i := range len(s) {
		hash ^= uint64(s[i])
		hash *= fnv1aPrime
	}

	return hash
}

// fnv1a64Uint computes the FNV-1a 64-bit hash over the 8 little-endian bytes of v.
func fnv1a64Uint(v uint64) uint64 {
	hash := fnv1aOffsetBasis

	for range 8 {
		hash ^= v & 0xff
		hash *= fnv1aPrime
		v >>= 8
	}

	return hash
}

// fnv1a64Float hashes the IEEE-754 bits of f. Zero is normalized so that
// -0 and +0, which compare equal, share a home slot.
func fnv1a64Float(f float64) uint64 {
	if f == 0 {
		f = 0
	}

	return fnv1a64Uint(math.Float64bits(f))
}
