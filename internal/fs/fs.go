// Package fs provides the small filesystem surface the lrut command needs.
//
// The main types are:
//   - [FS]: interface for the operations commands perform
//   - [Real]: production implementation using [os] and atomic writes
//
// Commands take an [FS] so tests can point them at a temp directory or swap
// in a failing implementation.
package fs

import (
	"io"
	"os"
)

// FS is the filesystem interface used by commands.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (io.ReadCloser, error)

	// ReadFile reads the whole file. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path so readers see either the old or
	// the new content, never a partial file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Exists reports whether path exists. A missing file is not an error.
	Exists(path string) (bool, error)
}
