package search

import (
	"fmt"
)

// Kind identifies a class of traversal diagnostic.
type Kind string

const (
	// KindEntryUnreadable: the type of a directory entry could not be determined.
	KindEntryUnreadable Kind = "ENTRY_UNREADABLE"

	// KindDirectoryList: a directory below the root could not be listed.
	KindDirectoryList Kind = "DIRECTORY_LIST_FAILED"

	// KindEntryEnumeration: one child of a listing was unusable.
	KindEntryEnumeration Kind = "ENTRY_ENUMERATION_FAILED"

	// KindUnsupportedEntry: the entry is neither a regular file nor a directory.
	KindUnsupportedEntry Kind = "UNSUPPORTED_ENTRY_KIND"

	// KindFileOpen: a file could not be opened for scanning.
	KindFileOpen Kind = "FILE_OPEN_FAILED"

	// KindLineRead: reading a line failed mid-stream.
	KindLineRead Kind = "LINE_READ_FAILED"

	// KindRootUnreadable: the root directory could not be listed. Fatal.
	KindRootUnreadable Kind = "ROOT_DIRECTORY_UNREADABLE"

	// KindMaxDepth is a notice: a directory was reached with no depth budget left.
	KindMaxDepth Kind = "MAX_DEPTH_REACHED"
)

// IsNotice reports whether the kind is informational rather than a failure.
func (k Kind) IsNotice() bool {
	return k == KindMaxDepth
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrEntryUnreadable  = &Error{Kind: KindEntryUnreadable}
	ErrDirectoryList    = &Error{Kind: KindDirectoryList}
	ErrEntryEnumeration = &Error{Kind: KindEntryEnumeration}
	ErrUnsupportedEntry = &Error{Kind: KindUnsupportedEntry}
	ErrFileOpen         = &Error{Kind: KindFileOpen}
	ErrLineRead         = &Error{Kind: KindLineRead}
	ErrRootUnreadable   = &Error{Kind: KindRootUnreadable}
	ErrMaxDepth         = &Error{Kind: KindMaxDepth}
)

// Error describes one traversal diagnostic. Only KindRootUnreadable is ever
// returned to the caller; every other kind goes to the Reporter.
type Error struct {
	Kind Kind
	// Path is the entry the diagnostic is about. For KindEntryEnumeration it
	// is the directory being listed.
	Path string
	// Line is set for KindLineRead.
	Line int
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindEntryUnreadable:
		msg = fmt.Sprintf("could not get file type for %s", e.Path)
	case KindDirectoryList:
		msg = fmt.Sprintf("could not read directory %s", e.Path)
	case KindEntryEnumeration:
		msg = fmt.Sprintf("could not read an entry in %s", e.Path)
	case KindUnsupportedEntry:
		msg = fmt.Sprintf("%s is a symlink or special file, skipping", e.Path)
	case KindFileOpen:
		msg = fmt.Sprintf("error opening file %s", e.Path)
	case KindLineRead:
		msg = fmt.Sprintf("problem reading line %d of file %s", e.Line, e.Path)
	case KindRootUnreadable:
		msg = fmt.Sprintf("could not read input directory %s", e.Path)
	case KindMaxDepth:
		msg = fmt.Sprintf("max depth reached at folder %s", e.Path)
	default:
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// Reporter receives diagnostics as they occur.
type Reporter interface {
	Report(err *Error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err *Error)

// Report implements Reporter.
func (f ReporterFunc) Report(err *Error) {
	f(err)
}

type discard struct{}

func (discard) Report(*Error) {}

// Discard drops every diagnostic.
var Discard Reporter = discard{}
