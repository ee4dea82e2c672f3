package search

import (
	"bufio"
	"errors"
	"io"
	"strings"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// Scanner streams single files and reports the lines containing the query.
type Scanner struct {
	fsys     fsutil.Filesystem
	query    string
	reporter Reporter
	stats    *Stats
}

// NewScanner returns a Scanner for query. A nil reporter discards diagnostics.
func NewScanner(fsys fsutil.Filesystem, query string, reporter Reporter) *Scanner {
	if reporter == nil {
		reporter = Discard
	}
	return &Scanner{fsys: fsys, query: query, reporter: reporter}
}

// Scan returns one Match per line of path containing the query, in line
// order. Open and read failures are reported and yield whatever was matched
// before the failure.
func (s *Scanner) Scan(path string) []Match {
	f, err := s.fsys.Open(path)
	if err != nil {
		s.report(&Error{Kind: KindFileOpen, Path: path, Err: err})
		return nil
	}
	defer func() {
		_ = f.Close()
	}()
	s.stats.fileScanned()

	var matches []Match
	var fileName string
	reader := bufio.NewReader(f)
	decoder := fsutil.NewLossyDecoder()
	line := 0

	for {
		line++

		raw, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			s.report(&Error{Kind: KindLineRead, Path: path, Line: line, Err: readErr})
			break
		}
		// A zero-length read is the only end-of-stream signal; a final line
		// without a terminator is still searched on this iteration.
		if len(raw) == 0 {
			break
		}
		s.stats.lineRead()

		if len(raw) < len(s.query) {
			continue
		}

		text := fsutil.DecodeLossy(decoder, raw)
		column := strings.Index(text, s.query)
		if column < 0 {
			continue
		}

		if fileName == "" {
			fileName = displayName(path)
		}
		matches = append(matches, Match{
			FileName: fileName,
			Line:     line,
			Column:   column,
		})
	}

	return matches
}

func (s *Scanner) report(err *Error) {
	s.stats.diagnostic(err.Kind)
	s.reporter.Report(err)
}

func displayName(path string) string {
	if name, ok := fsutil.BaseName(path); ok {
		return name
	}
	return path
}
