// Package logger builds the zerolog loggers used by the lrut command.
package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	colorRed      = 31
	colorGreen    = 32
	colorYellow   = 33
	colorBlue     = 34
	colorMagenta  = 35
	colorCyan     = 36
	colorBold     = 1
	colorDarkGray = 90
)

// ErrUnknownLevel is returned by [ParseLevel] for unrecognized level names.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel maps a level name (trace, debug, info, warn, error, disabled)
// to a zerolog level. The empty string means warn.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "off", "disabled", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// New returns a console logger writing to out at level. Colors are enabled
// only when out is a terminal.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(newConsoleWriter(out, !IsTerminal(out))).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}
	cw.FormatLevel = levelFormatter(noColor)

	return cw
}

func colorize(s any, c int, disabled bool) string {
	if disabled {
		return fmt.Sprintf("%s", s)
	}

	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

func levelFormatter(noColor bool) zerolog.Formatter {
	return func(i any) string {
		name, _ := i.(string)

		var l string

		switch name {
		case "trace":
			l = colorize("Trace", colorCyan, noColor)
		case "debug":
			l = colorize("Debug", colorBlue, noColor)
		case "info":
			l = colorize("Info", colorGreen, noColor)
		case "warn":
			l = colorize("Warning", colorYellow, noColor)
		case "error":
			l = colorize(colorize("Error", colorRed, noColor), colorBold, noColor)
		case "fatal", "panic":
			l = colorize(colorize(strings.ToUpper(name[:1])+name[1:], colorMagenta, noColor), colorBold, noColor)
		default:
			l = colorize("???", colorDarkGray, noColor)
		}

		return "[" + l + "]"
	}
}
