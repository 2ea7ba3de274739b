package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/lrutable/internal/config"
	"github.com/calvinalkan/lrutable/internal/fs"
	"github.com/calvinalkan/lrutable/internal/logger"
)

// App carries the resolved state shared by all commands.
type App struct {
	Config config.Config
	FS     fs.FS
	Log    zerolog.Logger
	In     io.Reader
}

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	return run(ctx, in, out, errOut, args, env, fs.NewReal())
}

func run(ctx context.Context, in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, fsys fs.FS) int {
	globals := flag.NewFlagSet("lrut", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	logLevel := globals.String("log-level", "", "Log `level` (trace|debug|info|warn|error|disabled)")
	help := globals.BoolP("help", "h", false, "Show help")

	app := &App{
		Config: config.Default(),
		FS:     fsys,
		Log:    zerolog.Nop(),
		In:     in,
	}

	commands := []*Command{
		CountCmd(app),
		DemoCmd(app),
		ReplCmd(app),
		PrintConfigCmd(app),
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	err := globals.Parse(rest)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals, commands)

		return 1
	}

	if globals.NArg() == 0 {
		printUsage(out, globals, commands)

		return 0
	}

	var overrides config.Overrides
	if globals.Changed("log-level") {
		overrides.LogLevel = logLevel
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Env:             env,
		Flags:           overrides,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Validated by config.Load.
	level, _ := logger.ParseLevel(cfg.LogLevel)

	app.Config = cfg
	app.Log = logger.New(errOut, level)

	name := globals.Arg(0)
	cmdArgs := globals.Args()[1:]

	if *help {
		cmdArgs = append([]string{"--help"}, cmdArgs...)
	}

	cmd := findCommand(commands, name)
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, name))
		fprintln(errOut)
		printUsage(errOut, globals, commands)

		return 1
	}

	app.Log.Debug().
		Str("command", name).
		Int("capacity", cfg.Capacity).
		Bool("compact", cfg.Compact).
		Str("cwd", cfg.EffectiveCwd).
		Msg("dispatch")

	return cmd.Run(ctx, NewIO(out, errOut), cmdArgs)
}

var errUnknownCommand = errors.New("unknown command")

func findCommand(commands []*Command, name string) *Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `lrut - fixed-capacity hash table with recency order

Usage: lrut [global flags] <command> [args]

Global flags:`)

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	_, _ = io.WriteString(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
