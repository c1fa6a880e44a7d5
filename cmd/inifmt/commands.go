package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFmtCmd(d *dialect) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Write files in normalized form",
		Long: `The fmt command parses each file and writes it back in normalized form.
Without arguments it reads standard input.

Example:
  inifmt fmt app.ini
  inifmt fmt -w *.ini
  inifmt --multi-section fmt < php.ini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.config()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if write {
					return &usageError{fmt.Errorf("-w needs file arguments")}
				}
				args = []string{"-"}
			}
			for _, path := range args {
				f, err := load(cmd, cfg, path)
				if err != nil {
					return err
				}
				if err := output(cmd, f, write); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result to the source file instead of standard output")
	return cmd
}

func newGetCmd(d *dialect) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "get <file> <section/option>",
		Short: "Print the value of an option",
		Long: `The get command prints the last value of an option with ${...}
references expanded. With --raw every value is printed unexpanded, one per line.

Example:
  inifmt get app.ini server/host
  inifmt get --raw app.ini server/alias`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.config()
			if err != nil {
				return err
			}
			secName, optName, err := splitRef(cfg, args[1])
			if err != nil {
				return err
			}
			f, err := load(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			s, err := f.Section(secName)
			if err != nil {
				return err
			}
			if raw {
				if !s.Has(optName) {
					_, err := s.Get(optName)
					return err
				}
				return printLines(cmd.OutOrStdout(), s.Values(optName))
			}
			v, err := s.Fetch(optName)
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), []string{v})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print all values without expanding references")
	return cmd
}

func newSetCmd(d *dialect) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "set <file> <section/option> <value>...",
		Short: "Replace the values of an option",
		Long: `The set command replaces all values of an option, adding the section
and option as needed, and writes the result.

Example:
  inifmt set -w app.ini server/port 8080`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return &usageError{fmt.Errorf("expected at least 3 argument(s), got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.config()
			if err != nil {
				return err
			}
			secName, optName, err := splitRef(cfg, args[1])
			if err != nil {
				return err
			}
			f, err := load(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			f.Add(secName).Put(optName, args[2:]...)
			return output(cmd, f, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result to the source file instead of standard output")
	return cmd
}

func newSectionsCmd(d *dialect) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file>",
		Short: "List section names",
		Long: `The sections command prints the section names of a file in document order.
Names of repeated sections are followed by their instance count.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.config()
			if err != nil {
				return err
			}
			f, err := load(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			var lines []string
			for _, name := range f.Names() {
				if n := f.Length(name); n > 1 {
					name = fmt.Sprintf("%s (%d)", name, n)
				}
				lines = append(lines, name)
			}
			return printLines(cmd.OutOrStdout(), lines)
		},
	}
}
