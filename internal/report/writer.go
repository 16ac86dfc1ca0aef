// Package report writes persona, comparison and analytics artifacts to disk.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is appended to every generated file name.
const TimestampLayout = "20060102-150405"

// Writer writes report files into an output directory.
type Writer struct {
	outputDir string
	now       func() time.Time
}

// NewWriter returns a Writer that writes to outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir, now: time.Now}
}

// SavePersona writes the persona text to <out>/<user>_persona_<timestamp>.txt.
func (w *Writer) SavePersona(username, text string) (string, error) {
	return w.write(fmt.Sprintf("%s_persona_%s.txt", SafeName(username), w.stamp()), []byte(text))
}

// SavePersonaPDF renders the persona as a PDF next to the text file.
func (w *Writer) SavePersonaPDF(username, text string) (string, error) {
	data, err := PersonaPDF(username, text, w.now())
	if err != nil {
		return "", err
	}
	return w.write(fmt.Sprintf("%s_persona_%s.pdf", SafeName(username), w.stamp()), data)
}

// SaveComparison writes a two-user comparison to
// <out>/comparison_<user1>_vs_<user2>_<timestamp>.md.
func (w *Writer) SaveComparison(first, second, text string) (string, error) {
	header := fmt.Sprintf("# Comparison: u/%s vs u/%s\n\n", first, second)
	name := fmt.Sprintf("comparison_%s_vs_%s_%s.md", SafeName(first), SafeName(second), w.stamp())
	return w.write(name, []byte(header+text+"\n"))
}

// SafeName makes a username usable as a file name component.
func SafeName(username string) string {
	s := strings.TrimSpace(username)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, `\`, "_")
	if s == "" || s == "." || s == ".." {
		return "unknown"
	}
	return s
}

func (w *Writer) stamp() string {
	return w.now().Format(TimestampLayout)
}

func (w *Writer) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", w.outputDir, err)
	}
	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	slog.Info("wrote file", "path", path)
	return path, nil
}
