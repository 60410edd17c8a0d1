package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute parses arguments, prepending any from the config file, and
// runs the selected command. Returns the process exit code.
func Execute() int {
	exitCode := 0

	root := &cobra.Command{
		Use:           "findedit",
		Short:         "Incremental find and replace for single documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newFindCmd(&exitCode))
	root.AddCommand(newReplaceCmd(&exitCode))
	root.AddCommand(newViewCmd(&exitCode))

	args := append(LoadConfigArgs(), os.Args[1:]...)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		newLogger().Error("error", "err", err)
		return 2
	}
	return exitCode
}

func addPatternFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "case-insensitive matching")
	cmd.Flags().BoolVarP(&cfg.WholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVarP(&cfg.Regex, "regex", "r", false, "treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&cfg.PCRE, "pcre", "P", false, "use PCRE syntax (backrefs, lookaround)")
	cmd.Flags().Int64Var(&cfg.MmapThreshold, "mmap-threshold", DefaultMmapThreshold, "file size in bytes at which reads switch to mmap")
}

func newFindCmd(exitCode *int) *cobra.Command {
	var cfg Config
	var colorWhen string

	cmd := &cobra.Command{
		Use:   "find PATTERN FILE",
		Short: "List occurrences of a pattern in a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Pattern = args[0]
			cfg.Path = args[1]
			if err := applyColorMode(&cfg, colorWhen); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			*exitCode = RunFind(cfg)
			return nil
		},
	}

	addPatternFlags(cmd, &cfg)
	cmd.Flags().BoolVarP(&cfg.CountOnly, "count", "c", false, "print only the occurrence count")
	cmd.Flags().BoolVar(&cfg.JSONOutput, "json", false, "emit one JSON object per occurrence")
	cmd.Flags().StringVar(&colorWhen, "color", "auto", "when to use color: auto, always, never")
	return cmd
}

func newReplaceCmd(exitCode *int) *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "replace PATTERN REPLACEMENT FILE",
		Short: "Replace every occurrence of a pattern in a file",
		Long: `Replace every occurrence of a pattern in a file.

With --regex or --pcre the replacement may reference capture groups as
$1, $2 or ${name}. Without --write the rewritten document is printed
to stdout and the file is left untouched.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Pattern = args[0]
			cfg.Replacement = args[1]
			cfg.Path = args[2]
			if err := cfg.Validate(); err != nil {
				return err
			}
			*exitCode = RunReplace(cfg)
			return nil
		},
	}

	addPatternFlags(cmd, &cfg)
	cmd.Flags().BoolVar(&cfg.Write, "write", false, "save the rewritten document back to the file")
	return cmd
}

func newViewCmd(exitCode *int) *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Open a file in the interactive viewer",
		Long: `Open a file in the interactive viewer.

Press / to search, ? to toggle options, n and N to step through the
occurrences, ctrl-h to replace. Matches in the visible region are
highlighted as you type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = args[0]
			*exitCode = RunView(cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.WatchMode, "watch", false, "reload when the file changes on disk")
	cmd.Flags().Int64Var(&cfg.MmapThreshold, "mmap-threshold", DefaultMmapThreshold, "file size in bytes at which reads switch to mmap")
	return cmd
}

func applyColorMode(cfg *Config, when string) error {
	switch when {
	case "auto", "":
		cfg.Color = ColorAuto
	case "always":
		cfg.Color = ColorAlways
	case "never":
		cfg.Color = ColorNever
	default:
		return fmt.Errorf("invalid --color value %q", when)
	}
	return nil
}
