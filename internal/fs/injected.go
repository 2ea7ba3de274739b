package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Op names an [FS] operation that [Faulty] can fail.
type Op string

// Operations [Faulty] can fail.
const (
	OpOpen            Op = "open"
	OpReadFile        Op = "read"
	OpWriteFileAtomic Op = "write"
	OpExists          Op = "exists"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the configured error so errors.Is/As continue to work.
type InjectedError struct {
	Op   Op
	Path string
	Err  error
}

// Error describes the failed operation and the injected cause.
func (e *InjectedError) Error() string {
	return fmt.Sprintf("injected %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by
// [Faulty]. Returns false if err is nil.
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails selected operations on demand. It is safe
// for concurrent use.
type Faulty struct {
	inner FS

	mu     sync.Mutex
	faults map[Op]error
	calls  map[Op]int
}

// NewFaulty returns a [Faulty] that passes every call through to inner
// until [Faulty.Fail] is called.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner:  inner,
		faults: make(map[Op]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes every later call of op return err wrapped in an
// [InjectedError].
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[op] = err
}

// Heal stops failing op.
func (f *Faulty) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.faults, op)
}

// Calls returns how many times op was called, failed or not.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	err, ok := f.faults[op]
	if !ok {
		return nil
	}

	return &InjectedError{Op: op, Path: path, Err: err}
}

// Open implements [FS].
func (f *Faulty) Open(path string) (io.ReadCloser, error) {
	err := f.check(OpOpen, path)
	if err != nil {
		return nil, err
	}

	return f.inner.Open(path)
}

// ReadFile implements [FS].
func (f *Faulty) ReadFile(path string) ([]byte, error) {
	err := f.check(OpReadFile, path)
	if err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

// WriteFileAtomic implements [FS]. A failed write leaves path untouched.
func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := f.check(OpWriteFileAtomic, path)
	if err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

// Exists implements [FS].
func (f *Faulty) Exists(path string) (bool, error) {
	err := f.check(OpExists, path)
	if err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

var _ FS = (*Faulty)(nil)
