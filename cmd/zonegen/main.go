package main

import (
	"fmt"
	"io"
	"os"

	zonegen "github.com/folbricht/zonegen"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	input       string
	output      string
	serialFile  string
	format      string
	inputFormat string
	debug       bool
}

func main() {
	var opt options
	cmd := &cobra.Command{
		Use:   "zonegen",
		Short: "Generate DNS zone files from a declarative zone description",
		Long: `Generate DNS zone files from a declarative zone description.

It reads a single TOML or YAML document describing forward zones and
reverse networks, applies defaults, validates names and emails, derives
all records including PTR records for the reverse zones, and renders
the result in NSD or Unbound format. The SOA serial is managed in a
counter file and increases monotonically on every run.`,
		Example: `  zonegen -i zones.toml -f unbound -o local.conf
  zonegen -i zones.yaml --input-format yaml -f nsd -o /etc/nsd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opt)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&opt.input, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&opt.output, "output", "o", "", "output file or directory (default: stdout for unbound, ./nsd for nsd)")
	cmd.Flags().StringVarP(&opt.serialFile, "serial", "s", ".serial", "serial number file")
	cmd.Flags().StringVarP(&opt.format, "format", "f", "unbound", "output format, 'unbound' or 'nsd'")
	cmd.Flags().StringVar(&opt.inputFormat, "input-format", "toml", "input format, 'toml' or 'yaml'")
	cmd.Flags().BoolVar(&opt.debug, "debug", false, "enable debug logging")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opt options) error {
	if opt.debug {
		zonegen.Log.SetLevel(logrus.DebugLevel)
	}

	var dialect zonegen.Dialect
	switch opt.inputFormat {
	case "toml":
		dialect = zonegen.TOML
	case "yaml":
		dialect = zonegen.YAML
	default:
		return fmt.Errorf("unsupported input format '%s'", opt.inputFormat)
	}

	old := zonegen.LoadSerial(opt.serialFile)
	serial := zonegen.CalcSerial(old)
	zonegen.Log.WithFields(logrus.Fields{"old": old, "new": serial}).Debug("computed serial")

	var text []byte
	var err error
	if opt.input != "" {
		text, err = os.ReadFile(opt.input)
		if err != nil {
			return errors.Wrap(err, "failed to read input")
		}
	} else {
		text, err = io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "failed to read stdin")
		}
	}

	forward, reverse, err := zonegen.Resolve(string(text), dialect, serial)
	if err != nil {
		return err
	}

	switch opt.format {
	case "unbound":
		out := zonegen.RenderUnbound(forward, reverse)
		if opt.output != "" {
			if err := os.WriteFile(opt.output, []byte(out), 0644); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		} else {
			fmt.Print(out)
		}
	case "nsd":
		dir := opt.output
		if dir == "" {
			dir = "./nsd"
		}
		if err := zonegen.WriteNSD(dir, forward, reverse); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	default:
		return fmt.Errorf("unsupported output format '%s'", opt.format)
	}

	// Persist only after output succeeded so a failed run can be repeated
	// with the same serial.
	return zonegen.SaveSerial(opt.serialFile, serial)
}
