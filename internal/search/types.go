package search

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery    = errors.New("search string must not be empty")
	ErrNegativeDepth = errors.New("max depth must not be negative")
)

// Match is one reported occurrence of the search string.
type Match struct {
	// FileName is the base name of the file, or its full path when no base
	// name can be extracted.
	FileName string
	// Line is 1-based.
	Line int
	// Column is the 0-based byte offset of the first occurrence within the
	// lossily decoded line.
	Column int
}

func (m Match) String() string {
	return fmt.Sprintf("Found a match in file %s, line %d, column %d!", m.FileName, m.Line, m.Column)
}

// Request configures one traversal.
type Request struct {
	Root  string
	Query string
	// MaxDepth is the depth budget handed to each child of Root. Zero still
	// scans Root's files but lists none of its sub-directories.
	MaxDepth int
	// SkipHidden drops dot-prefixed entries before they are inspected.
	SkipHidden bool
}

// Validate checks the request before any filesystem access.
func (r Request) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDepth, r.MaxDepth)
	}
	return nil
}
