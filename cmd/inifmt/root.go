package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/ianaindex"
	"zombiezen.com/go/log"

	"github.com/KimNorgaard/go-ini"
)

// dialect holds the flags shared by all subcommands.
type dialect struct {
	multiSection  bool
	singleOption  bool
	noComments    bool
	strict        bool
	noEscape      bool
	emptyOption   bool
	globalSection bool
	include       bool
	operator      string
	encoding      string
}

func (d *dialect) config() (ini.Config, error) {
	cfg := ini.DefaultConfig()
	cfg.MultiSection = d.multiSection
	cfg.MultiOption = !d.singleOption
	cfg.Comment = !d.noComments
	cfg.StrictOperator = d.strict
	cfg.Escape = !d.noEscape
	cfg.EmptyOption = d.emptyOption
	cfg.GlobalSection = d.globalSection
	cfg.Include = d.include

	if utf8.RuneCountInString(d.operator) != 1 || !strings.ContainsAny(d.operator, "=:") {
		return cfg, &usageError{fmt.Errorf("operator must be '=' or ':', got %q", d.operator)}
	}
	cfg.Operator, _ = utf8.DecodeRuneInString(d.operator)

	if d.encoding != "" {
		enc, err := ianaindex.IANA.Encoding(d.encoding)
		if err != nil || enc == nil {
			return cfg, &usageError{fmt.Errorf("unsupported encoding %q", d.encoding)}
		}
		cfg.Encoding = enc
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	d := &dialect{}
	root := &cobra.Command{
		Use:   "inifmt",
		Short: "Format, query and edit INI files",
		Long: `inifmt reads INI files in a configurable dialect and writes them back in
normalized form. It can also print and change single options.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := root.PersistentFlags()
	flags.BoolVar(&d.multiSection, "multi-section", false, "Keep repeated sections as separate instances")
	flags.BoolVar(&d.singleOption, "single-option", false, "Keep only the last value of repeated options")
	flags.BoolVar(&d.noComments, "no-comments", false, "Drop comments")
	flags.BoolVar(&d.strict, "strict", false, "Accept only the configured operator")
	flags.BoolVar(&d.noEscape, "no-escape", false, "Disable backslash escapes and continuation lines")
	flags.BoolVar(&d.emptyOption, "empty-option", false, "Allow options without a value")
	flags.BoolVar(&d.globalSection, "global-section", false, "Allow options before the first section")
	flags.BoolVar(&d.include, "include", false, "Honor include directives relative to the input file")
	flags.StringVar(&d.operator, "operator", "=", "Operator written between names and values")
	flags.StringVar(&d.encoding, "encoding", "", "IANA name of the file encoding (default UTF-8)")

	root.AddCommand(
		newFmtCmd(d),
		newGetCmd(d),
		newSetCmd(d),
		newSectionsCmd(d),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{fmt.Errorf("expected %d argument(s), got %d", n, len(args))}
		}
		return nil
	}
}

// load reads the file at path, or standard input for "-".
func load(cmd *cobra.Command, cfg ini.Config, path string) (*ini.File, error) {
	f := ini.New(cfg)
	if path == "-" {
		return f, f.Load(cmd.InOrStdin())
	}
	log.Debugf(cmd.Context(), "loading %s", path)
	f.SetPath(path)
	return f, f.LoadFile()
}

// output writes f to standard output, or back to its path when write is set.
func output(cmd *cobra.Command, f *ini.File, write bool) error {
	if write && f.Path() != "" {
		if err := f.StoreFile(); err != nil {
			return err
		}
		log.Infof(cmd.Context(), "wrote %s", f.Path())
		return nil
	}
	return f.Store(cmd.OutOrStdout())
}

// splitRef splits "section/option" at the last path separator.
func splitRef(cfg ini.Config, ref string) (section, option string, err error) {
	i := strings.LastIndex(ref, string(cfg.PathSeparator))
	if i <= 0 || i == len(ref)-1 {
		return "", "", &usageError{fmt.Errorf("%q is not of the form section%coption", ref, cfg.PathSeparator)}
	}
	return ref[:i], ref[i+1:], nil
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
