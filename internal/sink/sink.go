// Package sink writes the final report. It is the only code that touches
// the output file.
package sink

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sznuper/updavail/internal/failure"
)

// Stdout is the target that sends the report to standard output.
const Stdout = "-"

// Writer delivers text to Target.
type Writer struct {
	Target string
	// SuppressErrors leaves the previous file in place when the text is an
	// error message.
	SuppressErrors bool
	Console        io.Writer
	Logger         *slog.Logger
}

// Write delivers text. Console output ignores SuppressErrors; file output
// replaces the target atomically so readers never see a partial report.
func (w *Writer) Write(text string, isError bool) error {
	if w.Target == Stdout {
		console := w.Console
		if console == nil {
			console = os.Stdout
		}
		if _, err := fmt.Fprintln(console, text); err != nil {
			return failure.New(failure.Output, "write", err)
		}
		return nil
	}

	if isError && w.SuppressErrors {
		w.Logger.Info("not writing error to output file, error output is suppressed", "target", w.Target)
		return nil
	}

	if err := replaceFile(w.Target, []byte(text)); err != nil {
		return failure.New(failure.Output, "write", err)
	}
	w.Logger.Debug("output written", "target", w.Target, "bytes", len(text), "error", isError)
	return nil
}

func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
