package wordcount_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/lrutable/internal/testutil"
	"github.com/calvinalkan/lrutable/internal/wordcount"
	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

var separators = []string{" ", "\n", ", ", "--", "\t", ". "}

const maxFuzzWords = 256

// FuzzCounter_Matches_Map_When_Table_Compacts builds text from fuzz input
// and checks the counts against a plain map.
func FuzzCounter_Matches_Map_When_Table_Compacts(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("the cat and the dog"))
	f.Add([]byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		stream := testutil.NewByteStream(data)

		var text strings.Builder

		want := map[string]int{}
		total := 0

		for stream.HasMore() && total < maxFuzzWords {
			word := stream.NextWord(3)
			if stream.NextBool() {
				text.WriteString(strings.ToUpper(word))
			} else {
				text.WriteString(word)
			}

			text.WriteString(separators[stream.NextInt(len(separators))])

			want[word]++
			total++
		}

		counter := wordcount.NewCounter(1024, lrutable.Options[string]{Compact: true})

		err := counter.AddText(text.String())
		if errors.Is(err, lrutable.ErrProbeExhausted) {
			t.Skip("probe ran off the end of the table")
		}

		if err != nil {
			t.Fatalf("AddText: %v", err)
		}

		got := map[string]int{}
		for _, row := range counter.Rows() {
			got[row.Word] = row.Count
		}

		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("counts mismatch (-want +got):\n%s", diff)
		}

		if counter.Words() != total {
			t.Fatalf("Words()=%d, want %d", counter.Words(), total)
		}

		if err := counter.Table().Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})
}
