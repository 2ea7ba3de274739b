package cli

import (
	"context"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

const demoCapacity = 10

// DemoCmd returns the demo command.
func DemoCmd(app *App) *Command {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.Int("capacity", demoCapacity, "Number of table slots")
	fs.Bool("compact", false, "Close probe gaps on removal")

	return &Command{
		Flags: fs,
		Usage: "demo [flags]",
		Short: "Replay the insert/update/remove walkthrough",
		Long: `Replay a short walkthrough twice, once with integer keys and string
values and once with string keys and integer values. The table is printed
after the inserts and again after an update and a removal.

The walkthrough always starts from 10 slots so its output is reproducible;
the configured capacity does not apply. --capacity overrides it, and
--compact falls back to the configured value.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			capacity, _ := fs.GetInt("capacity")
			if capacity < 0 {
				return errCapacityNegative
			}

			compact := app.Config.Compact
			if fs.Changed("compact") {
				compact, _ = fs.GetBool("compact")
			}

			log := app.Log.With().Str("command", "demo").Logger()

			err := replay(io, "integer keys", capacity,
				lrutable.Options[int]{Logger: &log, Compact: compact},
				func(n int) int { return n },
				strconv.Itoa,
			)
			if err != nil {
				return err
			}

			io.Println()

			return replay(io, "string keys", capacity,
				lrutable.Options[string]{Logger: &log, Compact: compact},
				strconv.Itoa,
				func(n int) int { return n },
			)
		},
	}
}

// replay runs the walkthrough on fresh tables, deriving keys and values from
// small integers.
func replay[K comparable, V any](o *IO, title string, capacity int, opts lrutable.Options[K], key func(int) K, value func(int) V) error {
	o.Printf("== %s (capacity %d) ==\n", title, capacity)

	scratch := lrutable.NewWithOptions[K, V](capacity, opts)
	scratch.Remove(key(1))

	err := scratch.TryInsert(key(1), value(1))
	if err != nil {
		return err
	}

	scratch.Remove(key(1))
	o.Printf("after insert+remove: oldest=%s latest=%s\n", entryKey(scratch.Oldest()), entryKey(scratch.Latest()))

	table := lrutable.NewWithOptions[K, V](capacity, opts)
	o.Printf("newest=%s oldest=%s\n", entryKey(table.Latest()), entryKey(table.Oldest()))

	table.Remove(key(2))

	steps := []struct {
		key   int
		value int
	}{
		{1, 1},
		{2, 2},
		{2, 3},
		{3, 4},
		{4, 5},
	}

	for _, step := range steps {
		err := table.TryInsert(key(step.key), value(step.value))
		if err != nil {
			return err
		}
	}

	err = table.Display(o.Out())
	if err != nil {
		return err
	}

	got, ok := table.Get(key(2))
	o.Printf("get %v: %s\n", key(2), lookupResult(got, ok))
	o.Printf("newest=%s oldest=%s\n", entryKey(table.Latest()), entryKey(table.Oldest()))

	err = table.TryInsert(key(1), value(12))
	if err != nil {
		return err
	}

	table.Remove(key(2))

	err = table.Display(o.Out())
	if err != nil {
		return err
	}

	o.Printf("oldest=%s newest=%s\n", entryKey(table.Oldest()), entryKey(table.Latest()))

	err = table.Validate()
	if err != nil {
		o.Warn("table check failed", err.Error())
	}

	return nil
}

func entryKey[K comparable, V any](entry lrutable.Entry[K, V]) string {
	if !entry.Live {
		return "-"
	}

	return fmt.Sprint(entry.Key)
}

func lookupResult[V any](value V, ok bool) string {
	if !ok {
		return "(absent)"
	}

	return fmt.Sprint(value)
}
