package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dl/findedit/internal/input"
	"github.com/dl/findedit/internal/output"
	"github.com/dl/findedit/internal/scan"
	"github.com/dl/findedit/internal/textpos"
	"github.com/dl/findedit/internal/tui"
)

// RunFind searches a file and prints the occurrences.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func RunFind(cfg Config) int {
	logger := newLogger()

	pattern, err := scan.Compile(queryFrom(cfg))
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}

	doc, err := loadDocument(cfg)
	if err != nil {
		logger.Error("read failed", "path", cfg.Path, "err", err)
		return 2
	}

	res, err := pattern.Scan(context.Background(), doc.Text, 0, len(doc.Text), scan.CapFind)
	if err != nil {
		logger.Error("search failed", "err", err)
		return 2
	}

	matches := output.Locate(doc.Text, res.Spans)
	w := output.NewWriter()
	w.Write(formatterFrom(cfg).Format(nil, matches))
	if res.Truncated {
		logger.Warn("match list truncated", "limit", scan.CapFind)
	}

	if len(matches) > 0 {
		return 0
	}
	return 1
}

// RunReplace rewrites every occurrence in a file. Without --write the
// rewritten document goes to stdout; with it the file is saved in
// place via an atomic rename, preserving its on-disk encoding.
func RunReplace(cfg Config) int {
	logger := newLogger()

	pattern, err := scan.Compile(queryFrom(cfg))
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}

	doc, err := loadDocument(cfg)
	if err != nil {
		logger.Error("read failed", "path", cfg.Path, "err", err)
		return 2
	}

	rewritten, count, err := rewriteAll(context.Background(), pattern, doc.Text, cfg.Replacement)
	if err != nil {
		logger.Error("replace failed", "err", err)
		return 2
	}

	if !cfg.Write {
		output.NewWriter().Write(rewritten)
		if count > 0 {
			return 0
		}
		return 1
	}

	if count == 0 {
		logger.Info("no occurrences", "path", cfg.Path)
		return 1
	}
	if err := saveDocument(cfg.Path, rewritten, doc.Encoding); err != nil {
		logger.Error("write failed", "path", cfg.Path, "err", err)
		return 2
	}
	fmt.Printf("replaced %d occurrences in %s\n", count, cfg.Path)
	return 0
}

// RunView opens the interactive viewer.
func RunView(cfg Config) int {
	logger := newLogger()

	err := tui.Run(tui.Options{
		Path:          cfg.Path,
		Watch:         cfg.WatchMode,
		MmapThreshold: cfg.MmapThreshold,
	})
	if err != nil {
		logger.Error("viewer failed", "path", cfg.Path, "err", err)
		return 2
	}
	return 0
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level: log.WarnLevel,
	})
}

func queryFrom(cfg Config) scan.Query {
	return scan.Query{
		Pattern:   cfg.Pattern,
		MatchCase: !cfg.IgnoreCase,
		WholeWord: cfg.WholeWord,
		Regex:     cfg.Regex,
		PCRE:      cfg.PCRE,
	}
}

func formatterFrom(cfg Config) output.Formatter {
	if cfg.JSONOutput {
		return output.NewJSONFormatter()
	}
	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}
	return output.NewTextFormatter(cfg.CountOnly, useColor)
}

// loadDocument reads the configured path, or stdin for "-".
func loadDocument(cfg Config) (input.Document, error) {
	if cfg.Path == "-" {
		return input.Load("", input.NewStdinReader())
	}
	threshold := cfg.MmapThreshold
	if threshold <= 0 {
		threshold = DefaultMmapThreshold
	}
	return input.Load(cfg.Path, input.NewAdaptiveReader(threshold))
}

// rewriteAll expands template over every occurrence in text and
// returns the rewritten document plus the occurrence count.
func rewriteAll(ctx context.Context, p *scan.Pattern, text []byte, template string) ([]byte, int, error) {
	var out bytes.Buffer
	copied := 0
	cur := 0
	count := 0

	for cur <= len(text) {
		res, err := p.Scan(ctx, text, cur, len(text), 1)
		if err != nil {
			return nil, 0, err
		}
		if len(res.Spans) == 0 {
			break
		}
		sp := res.Spans[0]

		out.Write(text[copied:sp.Start])
		out.WriteString(p.Expand(text, sp, template))
		copied = sp.End
		count++

		cur = sp.End
		if sp.Len() == 0 {
			// Zero-length occurrence: step one character or stop at
			// the document end.
			advanced := textpos.NextBoundary(text, cur)
			if advanced == cur {
				break
			}
			cur = advanced
		}
	}

	out.Write(text[copied:])
	return out.Bytes(), count, nil
}

// saveDocument writes text back in the document's original encoding,
// using a temp file plus rename so watchers see a single replacement.
func saveDocument(path string, text []byte, enc input.Encoding) error {
	stored, err := input.EncodeFor(text, enc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(stored); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if info, err := os.Stat(path); err == nil {
		os.Chmod(tmpName, info.Mode())
	}
	return os.Rename(tmpName, path)
}
