package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/lrutable/internal/config"
	"github.com/calvinalkan/lrutable/internal/logger"
	"github.com/calvinalkan/lrutable/pkg/lrutable"
)

const (
	replPrompt      = "lrut> "
	historyFileName = ".lrut_history"
	historyPerms    = 0o600
)

var replCommands = []string{
	"put", "get", "del", "delete",
	"oldest", "latest", "show", "ls",
	"len", "check", "help",
	"exit", "quit", "q",
}

// ReplCmd returns the repl command.
func ReplCmd(app *App) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.Int("capacity", config.DefaultCapacity, "Number of table slots")
	fs.Bool("compact", false, "Close probe gaps on removal")

	return &Command{
		Flags: fs,
		Usage: "repl [flags]",
		Short: "Interactive shell over a string table",
		Long: `Start an interactive shell over an empty table of string keys and values.
Line editing and history are enabled when stdin is a terminal; otherwise
commands are read one per line. Type 'help' for commands.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execRepl(ctx, io, app, fs)
		},
	}
}

// lineReader is the part of [liner.State] the shell needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// scanReader reads commands from a non-interactive stream.
type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) Prompt(string) (string, error) {
	if !s.scanner.Scan() {
		err := s.scanner.Err()
		if err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return s.scanner.Text(), nil
}

func (s *scanReader) AppendHistory(string) {}

func (s *scanReader) Close() error { return nil }

func execRepl(ctx context.Context, o *IO, app *App, fs *flag.FlagSet) error {
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

	if app.In == nil {
		return errNoStdin
	}

	log := app.Log.With().Str("command", "repl").Logger()
	shell := &repl{
		table: lrutable.NewWithOptions[string, string](capacity, lrutable.Options[string]{
			Logger:  &log,
			Compact: compact,
		}),
		o: o,
	}

	var reader lineReader

	interactive := isTerminalReader(app.In)
	if interactive {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(complete)
		loadHistory(app, state)

		defer saveHistory(app, state)

		reader = state

		o.Printf("lrut repl (capacity=%d, compact=%v)\n", capacity, compact)
		o.Println("Type 'help' for available commands.")
	} else {
		reader = &scanReader{scanner: bufio.NewScanner(app.In)}
	}

	defer func() { _ = reader.Close() }()

	for {
		err := ctx.Err()
		if err != nil {
			return err
		}

		line, err := reader.Prompt(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reader.AppendHistory(line)

		if shell.exec(line) {
			return nil
		}
	}
}

type repl struct {
	table *lrutable.Table[string, string]
	o     *IO
}

// exec runs one command line and reports whether the shell should exit.
func (r *repl) exec(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		r.printHelp()
	case "put":
		r.put(args)
	case "get":
		r.get(args)
	case "del", "delete":
		r.del(args)
	case "oldest":
		r.printEntry(r.table.Oldest())
	case "latest":
		r.printEntry(r.table.Latest())
	case "show", "ls":
		r.show()
	case "len":
		r.o.Printf("len=%d cap=%d\n", r.table.Len(), r.table.Cap())
	case "check":
		r.check()
	default:
		r.o.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false
}

func (r *repl) put(args []string) {
	if len(args) < 2 {
		r.o.Println("usage: put <key> <value>")

		return
	}

	err := r.table.TryInsert(args[0], strings.Join(args[1:], " "))
	if err != nil {
		r.o.Println("error:", err)

		return
	}

	r.o.Println("ok")
}

func (r *repl) get(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: get <key>")

		return
	}

	value, ok := r.table.Get(args[0])
	r.o.Println(lookupResult(value, ok))
}

func (r *repl) del(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: del <key>")

		return
	}

	if r.table.Remove(args[0]) {
		r.o.Println("removed")

		return
	}

	r.o.Println("(absent)")
}

func (r *repl) printEntry(entry lrutable.Entry[string, string]) {
	if !entry.Live {
		r.o.Println("(empty)")

		return
	}

	r.o.Printf("%s=%s\n", entry.Key, entry.Value)
}

func (r *repl) show() {
	if r.table.Len() == 0 {
		r.o.Println("(empty)")

		return
	}

	err := r.table.Display(r.o.Out())
	if err != nil {
		r.o.Println("error:", err)
	}
}

func (r *repl) check() {
	err := r.table.Validate()
	if err == nil {
		r.o.Println("ok")

		return
	}

	for _, line := range strings.Split(err.Error(), "\n") {
		r.o.Println(line)
	}
}

func (r *repl) printHelp() {
	r.o.Println("Commands:")
	r.o.Println("  put <key> <value>    Insert or update an entry")
	r.o.Println("  get <key>            Look up a value")
	r.o.Println("  del <key>            Remove an entry")
	r.o.Println("  oldest               Show the least recently written entry")
	r.o.Println("  latest               Show the most recently written entry")
	r.o.Println("  show                 List live slots in slot order")
	r.o.Println("  len                  Show live count and capacity")
	r.o.Println("  check                Check table invariants")
	r.o.Println("  help                 Show this help")
	r.o.Println("  exit / quit / q      Exit")
}

func complete(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func isTerminalReader(in io.Reader) bool {
	f, ok := in.(*os.File)

	return ok && logger.IsTerminal(f)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFileName)
}

func loadHistory(app *App, state *liner.State) {
	path := historyPath()
	if path == "" {
		return
	}

	ok, err := app.FS.Exists(path)
	if err != nil || !ok {
		return
	}

	f, err := app.FS.Open(path)
	if err != nil {
		app.Log.Debug().Err(err).Str("path", path).Msg("open history")

		return
	}

	defer func() { _ = f.Close() }()

	_, err = state.ReadHistory(f)
	if err != nil {
		app.Log.Debug().Err(err).Str("path", path).Msg("read history")
	}
}

func saveHistory(app *App, state *liner.State) {
	path := historyPath()
	if path == "" {
		return
	}

	var buf bytes.Buffer

	_, err := state.WriteHistory(&buf)
	if err == nil {
		err = app.FS.WriteFileAtomic(path, buf.Bytes(), historyPerms)
	}

	if err != nil {
		app.Log.Warn().Err(err).Str("path", path).Msg("save history")
	}
}
