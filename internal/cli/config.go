package cli

import "fmt"

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// DefaultMmapThreshold is the file size at which reads switch from a
// plain copy to a memory map.
const DefaultMmapThreshold = 1 << 20

// Config holds configuration shared by the findedit commands.
type Config struct {
	Pattern     string
	Replacement string
	Path        string

	IgnoreCase bool
	WholeWord  bool
	Regex      bool
	PCRE       bool

	CountOnly  bool
	JSONOutput bool
	Color      ColorMode

	// Write applies a replacement back to the file instead of printing
	// the rewritten document to stdout.
	Write bool
	// WatchMode reloads the viewer when the file changes on disk.
	WatchMode bool

	MmapThreshold int64
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Pattern == "" {
		return fmt.Errorf("no pattern specified")
	}
	if c.Regex && c.PCRE {
		return fmt.Errorf("cannot use -r (regex) and -P (pcre) together")
	}
	if c.CountOnly && c.JSONOutput {
		return fmt.Errorf("cannot use -c (count) and --json together")
	}
	if c.MmapThreshold < 0 {
		return fmt.Errorf("invalid mmap threshold: %d", c.MmapThreshold)
	}
	return nil
}
