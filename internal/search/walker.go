package search

import (
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// Walker enumerates a tree depth-first and hands every regular file to a
// Scanner. Failures below the starting entry are reported and skipped.
type Walker struct {
	fsys       fsutil.Filesystem
	scanner    *Scanner
	reporter   Reporter
	stats      *Stats
	skipHidden bool
}

// NewWalker returns a Walker searching for query.
func NewWalker(fsys fsutil.Filesystem, query string, opts ...Option) *Walker {
	cfg := newOptions(opts)
	scanner := NewScanner(fsys, query, cfg.reporter)
	scanner.stats = cfg.stats
	return &Walker{
		fsys:       fsys,
		scanner:    scanner,
		reporter:   cfg.reporter,
		stats:      cfg.stats,
		skipHidden: cfg.skipHidden,
	}
}

type frame struct {
	entry fsutil.Entry
	depth int
}

// Traverse searches the subtree rooted at entry. depthRemaining is the number
// of directory levels that may still be listed: a directory reached with a
// budget of zero is reported and not opened.
//
// Matches come back in depth-first pre-order, children in listing order.
func (w *Walker) Traverse(entry fsutil.Entry, depthRemaining int) []Match {
	return w.walk([]frame{{entry: entry, depth: depthRemaining}})
}

// walk drains an explicit stack rather than recursing, so very deep trees
// cannot exhaust the goroutine stack. Children are pushed in reverse so that
// pops follow listing order.
func (w *Walker) walk(stack []frame) []Match {
	var matches []Match

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entry := top.entry

		if entry.Err != nil {
			w.report(&Error{Kind: KindEntryEnumeration, Path: entry.Path, Err: entry.Err})
			continue
		}
		if w.skipHidden && entry.IsHidden() {
			continue
		}

		info, err := w.fsys.Lstat(entry.Path)
		if err != nil {
			w.report(&Error{Kind: KindEntryUnreadable, Path: entry.Path, Err: err})
			continue
		}

		switch fsutil.KindOf(info.Mode()) {
		case fsutil.KindFile:
			matches = append(matches, w.scanner.Scan(entry.Path)...)

		case fsutil.KindDir:
			if top.depth <= 0 {
				w.report(&Error{Kind: KindMaxDepth, Path: entry.Path})
				continue
			}
			children, err := w.fsys.ReadDir(entry.Path)
			if err != nil {
				w.report(&Error{Kind: KindDirectoryList, Path: entry.Path, Err: err})
				continue
			}
			w.stats.dirListed()
			stack = pushChildren(stack, children, top.depth-1)

		default:
			w.report(&Error{Kind: KindUnsupportedEntry, Path: entry.Path})
		}
	}

	return matches
}

func pushChildren(stack []frame, children []fsutil.Entry, depth int) []frame {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{entry: children[i], depth: depth})
	}
	return stack
}

func (w *Walker) report(err *Error) {
	w.stats.diagnostic(err.Kind)
	w.reporter.Report(err)
}
