package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadConfigArgs reads the findedit config file and returns parsed
// arguments. Config file location: FINDEDIT_CONFIG_PATH env var, or
// ~/.findedit. Format: one flag per line, with a valued flag and its
// value on the same line ("--mmap-threshold 65536"); # comments and
// empty lines ignored. Returns nil if no config file found.
func LoadConfigArgs() []string {
	path := os.Getenv("FINDEDIT_CONFIG_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".findedit")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, strings.Fields(line)...)
	}
	return args
}
