package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/lrutable/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			io.Printf("%s", config.Format(app.Config))

			return nil
		},
	}
}
