// Package wordcount counts word frequencies in an [lrutable.Table].
//
// Text is normalized by lowercasing ASCII letters and replacing every
// non-alphanumeric rune with a space before splitting on whitespace.
package wordcount

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

// DefaultCapacity sizes the table for typical prose files.
const DefaultCapacity = 32000

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Output formats accepted by [WriteReport].
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by [WriteReport] for unsupported formats.
var ErrUnknownFormat = errors.New("unknown report format")

// Row is one word and its count.
type Row struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Counter accumulates word counts.
type Counter struct {
	table *lrutable.Table[string, int]
	words int
}

// NewCounter returns a counter backed by a table with capacity slots.
func NewCounter(capacity int, opts lrutable.Options[string]) *Counter {
	return &Counter{table: lrutable.NewWithOptions[string, int](capacity, opts)}
}

// Add counts one occurrence of word. Words are stored as given; use
// [Normalize] first for raw text.
//
// Add fails with an error wrapping [lrutable.ErrProbeExhausted] when the
// table has no room for a new word.
func (c *Counter) Add(word string) error {
	count, _ := c.table.Get(word)

	err := c.table.TryInsert(word, count+1)
	if err != nil {
		return fmt.Errorf("count %q: %w", word, err)
	}

	c.words++

	return nil
}

// AddText normalizes text and counts every word in it.
func (c *Counter) AddText(text string) error {
	for _, word := range Normalize(text) {
		err := c.Add(word)
		if err != nil {
			return err
		}
	}

	return nil
}

// Feed reads r line by line and counts every word.
func (c *Counter) Feed(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		err := c.AddText(scanner.Text())
		if err != nil {
			return err
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

// Table returns the backing table.
func (c *Counter) Table() *lrutable.Table[string, int] {
	return c.table
}

// Words returns the total number of words counted.
func (c *Counter) Words() int {
	return c.words
}

// Distinct returns the number of distinct words.
func (c *Counter) Distinct() int {
	return c.table.Len()
}

// Rows returns every counted word in the table's physical slot order.
func (c *Counter) Rows() []Row {
	rows := make([]Row, 0, c.table.Len())

	for _, entry := range c.table.All() {
		rows = append(rows, Row{Word: entry.Key, Count: entry.Value})
	}

	return rows
}

// Normalize lowercases ASCII letters, turns every other non-alphanumeric
// rune into a separator and returns the resulting words.
//
// Alphanumeric means a letter, a number, or a combining mark with the
// Unicode Alphabetic property such as a Devanagari vowel sign. Other marks,
// like the virama, split words.
func Normalize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r):
			return r
		default:
			return ' '
		}
	}, text)

	return strings.Fields(mapped)
}

// WriteReport writes rows to w as "word count" lines (text) or a JSON array.
func WriteReport(w io.Writer, rows []Row, format string) error {
	switch format {
	case FormatText, "":
		for _, row := range rows {
			_, err := fmt.Fprintf(w, "%s %d\n", row.Word, row.Count)
			if err != nil {
				return err
			}
		}

		return nil
	case FormatJSON:
		if rows == nil {
			rows = []Row{}
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownFormat, format, FormatText, FormatJSON)
	}
}
