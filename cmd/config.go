package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/nibzard/tasktrack/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("tasktrack config", flag.ContinueOnError)
	fs.SetOutput(w)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	for _, field := range config.Fields() {
		fmt.Fprintf(w, "%-17s = %-40q # %s\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	if len(cws.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# Files read:")
		for _, f := range cws.Files {
			fmt.Fprintf(w, "#   %s\n", f)
		}
	}
	return nil
}
