package lrutable

import "errors"

var (
	// ErrProbeExhausted indicates linear probing ran off the end of the
	// backing array without finding the key or an empty slot.
	//
	// This is a sizing error: the table is full along the key's probe
	// sequence, or its capacity is zero. [Table.Insert] panics with an error
	// wrapping it.
	ErrProbeExhausted = errors.New("lrutable: probe exhausted")

	// ErrChainBroken indicates the recency chain does not link exactly the
	// live slots from oldest to latest.
	ErrChainBroken = errors.New("lrutable: recency chain broken")

	// ErrDuplicateKey indicates two live slots hold the same key.
	ErrDuplicateKey = errors.New("lrutable: duplicate key")

	// ErrUnreachableKey indicates a live key cannot be found by probing from
	// its home slot because an empty slot interrupts the scan.
	ErrUnreachableKey = errors.New("lrutable: unreachable key")
)
