// Package output renders search matches for people and files.
package output

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kk-code-lab/rseek/internal/filelock"
	"github.com/kk-code-lab/rseek/internal/search"
	"github.com/kk-code-lab/rseek/internal/textutil"
)

// Format selects how matches are rendered.
type Format string

const (
	// FormatPlain prints one "Found a match in file ..." sentence per match.
	FormatPlain Format = "plain"
	// FormatTable prints aligned FILE, LINE and COLUMN columns.
	FormatTable Format = "table"
)

const columnGap = "  "

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatPlain, "":
		return FormatPlain, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Render writes matches to w in the given format. File names are sanitised
// so that names read from disk cannot emit terminal control sequences.
func Render(w io.Writer, matches []search.Match, format Format) error {
	bw := bufio.NewWriter(w)

	switch format {
	case FormatTable:
		renderTable(bw, matches)
	case FormatPlain, "":
		for _, m := range matches {
			m.FileName = textutil.SanitizeTerminalText(m.FileName)
			_, _ = bw.WriteString(m.String())
			_ = bw.WriteByte('\n')
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write matches: %w", err)
	}
	return nil
}

func renderTable(w *bufio.Writer, matches []search.Match) {
	if len(matches) == 0 {
		return
	}

	rows := make([][3]string, 0, len(matches)+1)
	rows = append(rows, [3]string{"FILE", "LINE", "COLUMN"})
	for _, m := range matches {
		rows = append(rows, [3]string{
			textutil.SanitizeTerminalText(m.FileName),
			strconv.Itoa(m.Line),
			strconv.Itoa(m.Column),
		})
	}

	var widths [2]int
	for _, row := range rows {
		for col := range widths {
			widths[col] = max(widths[col], textutil.DisplayWidth(row[col]))
		}
	}

	for _, row := range rows {
		_, _ = w.WriteString(textutil.PadRight(row[0], widths[0]))
		_, _ = w.WriteString(columnGap)
		_, _ = w.WriteString(textutil.PadRight(row[1], widths[1]))
		_, _ = w.WriteString(columnGap)
		_, _ = w.WriteString(row[2])
		_ = w.WriteByte('\n')
	}
}

// WriteFile renders matches into path, replacing it atomically while holding
// the path's lock file.
func WriteFile(path string, matches []search.Match, format Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, matches, format); err != nil {
		return err
	}
	if err := filelock.LockAndWrite(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
