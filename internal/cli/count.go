package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/lrutable/internal/config"
	"github.com/calvinalkan/lrutable/internal/wordcount"
	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

const reportPerms = 0o644

var errCapacityNegative = errors.New("--capacity must be non-negative")

// CountCmd returns the count command.
func CountCmd(app *App) *Command {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.Int("capacity", config.DefaultCapacity, "Number of table slots")
	fs.Bool("compact", false, "Close probe gaps on removal")
	fs.String("format", config.DefaultFormat, "Report format (text|json)")
	fs.StringP("out", "o", "", "Write the report to `file` instead of stdout")

	return &Command{
		Flags: fs,
		Usage: "count [flags] <file>...",
		Short: "Count word frequencies",
		Long: `Count word frequencies in the given files ("-" reads stdin).

Words are lowercased and split on every non-alphanumeric character. Counts
are kept in a single table and reported in slot order, followed by the
oldest and latest word. Fails if the table runs out of room.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execCount(ctx, io, app, fs, args)
		},
	}
}

func execCount(ctx context.Context, o *IO, app *App, fs *flag.FlagSet, args []string) error {
	capacity := app.Config.Capacity
	if fs.Changed("capacity") {
		capacity, _ = fs.GetInt("capacity")
	}

	if capacity < 0 {
		return errCapacityNegative
	}

	compact := app.Config.Compact
	if fs.Changed("compact") {
		compact, _ = fs.GetBool("compact")
	}

	format := app.Config.Format
	if fs.Changed("format") {
		format, _ = fs.GetString("format")
	}

	if format != wordcount.FormatText && format != wordcount.FormatJSON {
		return fmt.Errorf("%w: %q", wordcount.ErrUnknownFormat, format)
	}

	outPath, _ := fs.GetString("out")

	if len(args) == 0 {
		args = []string{"-"}
	}

	log := app.Log.With().Str("command", "count").Logger()
	counter := wordcount.NewCounter(capacity, lrutable.Options[string]{
		Logger:  &log,
		Compact: compact,
	})

	for _, path := range args {
		err := ctx.Err()
		if err != nil {
			return err
		}

		err = feedPath(app, counter, path)
		if errors.Is(err, lrutable.ErrProbeExhausted) {
			return fmt.Errorf("%w (try a larger --capacity than %d)", err, capacity)
		}

		if err != nil {
			return err
		}

		log.Info().
			Str("input", path).
			Int("words", counter.Words()).
			Int("distinct", counter.Distinct()).
			Msg("counted")
	}

	var report bytes.Buffer

	err := wordcount.WriteReport(&report, counter.Rows(), format)
	if err != nil {
		return err
	}

	if format != wordcount.FormatJSON {
		table := counter.Table()
		fmt.Fprintf(&report, "oldest=%s\n", entryKey(table.Oldest()))
		fmt.Fprintf(&report, "latest=%s\n", entryKey(table.Latest()))
	}

	if outPath == "" {
		o.Printf("%s", report.String())

		return nil
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(app.Config.EffectiveCwd, outPath)
	}

	err = app.FS.WriteFileAtomic(outPath, report.Bytes(), reportPerms)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	o.Printf("wrote %d words (%d distinct) to %s\n", counter.Words(), counter.Distinct(), outPath)

	return nil
}

func feedPath(app *App, counter *wordcount.Counter, path string) error {
	if path == "-" {
		if app.In == nil {
			return errNoStdin
		}

		return counter.Feed(app.In)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(app.Config.EffectiveCwd, path)
	}

	f, err := app.FS.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}

	defer func() { _ = f.Close() }()

	err = counter.Feed(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

var errNoStdin = errors.New("no stdin available")
