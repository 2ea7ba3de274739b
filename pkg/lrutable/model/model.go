// Package model provides a deliberately simple, in-memory model of
// lrutable's publicly observable behavior.
//
// The model is the textbook ordered map: a doubly linked list of live pairs
// from oldest to latest write, plus a map from key to list element. It knows
// nothing about slots, probing or capacity.
package model

import (
	list "github.com/bahlo/generic-list-go"
)

// Pair is a live key/value pair.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Model is an ordered map where every write moves the key to the end.
type Model[K comparable, V any] struct {
	order *list.List[Pair[K, V]]
	index map[K]*list.Element[Pair[K, V]]
}

// New returns an empty model.
func New[K comparable, V any]() *Model[K, V] {
	return &Model[K, V]{
		order: list.New[Pair[K, V]](),
		index: make(map[K]*list.Element[Pair[K, V]]),
	}
}

// Clone makes a deep copy so tests can fork the exact same state.
func (m *Model[K, V]) Clone() *Model[K, V] {
	clone := New[K, V]()
	for _, pair := range m.Pairs() {
		clone.Insert(pair.Key, pair.Value)
	}

	return clone
}

// Insert writes value under key and moves key to the latest position.
func (m *Model[K, V]) Insert(key K, value V) {
	m.Remove(key)
	m.index[key] = m.order.PushBack(Pair[K, V]{Key: key, Value: value})
}

// Remove deletes key and reports whether it was present.
func (m *Model[K, V]) Remove(key K) bool {
	elem, ok := m.index[key]
	if !ok {
		return false
	}

	m.order.Remove(elem)
	delete(m.index, key)

	return true
}

// Get returns the value stored under key.
func (m *Model[K, V]) Get(key K) (V, bool) {
	elem, ok := m.index[key]
	if !ok {
		var zero V

		return zero, false
	}

	return elem.Value.Value, true
}

// Contains reports whether key is live.
func (m *Model[K, V]) Contains(key K) bool {
	_, ok := m.index[key]

	return ok
}

// Oldest returns the least recently written pair.
func (m *Model[K, V]) Oldest() (Pair[K, V], bool) {
	front := m.order.Front()
	if front == nil {
		return Pair[K, V]{}, false
	}

	return front.Value, true
}

// Latest returns the most recently written pair.
func (m *Model[K, V]) Latest() (Pair[K, V], bool) {
	back := m.order.Back()
	if back == nil {
		return Pair[K, V]{}, false
	}

	return back.Value, true
}

// Len returns the number of live pairs.
func (m *Model[K, V]) Len() int {
	return m.order.Len()
}

// Pairs returns live pairs, oldest first.
func (m *Model[K, V]) Pairs() []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, m.order.Len())
	for elem := m.order.Front(); elem != nil; elem = elem.Next() {
		pairs = append(pairs, elem.Value)
	}

	return pairs
}

// Keys returns live keys, oldest first.
func (m *Model[K, V]) Keys() []K {
	keys := make([]K, 0, m.order.Len())
	for elem := m.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.Key)
	}

	return keys
}
