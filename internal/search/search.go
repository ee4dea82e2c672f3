package search

import (
	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

// Option customises a Walker or a Search call.
type Option func(*options)

type options struct {
	reporter   Reporter
	stats      *Stats
	skipHidden bool
}

func newOptions(opts []Option) options {
	cfg := options{reporter: Discard}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithReporter routes diagnostics to r as they occur.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithStats accumulates counters into s.
func WithStats(s *Stats) Option {
	return func(o *options) {
		o.stats = s
	}
}

// WithSkipHidden drops dot-prefixed entries without inspecting them.
func WithSkipHidden(skip bool) Option {
	return func(o *options) {
		o.skipHidden = skip
	}
}

// Search lists req.Root and traverses each of its children with a depth
// budget of req.MaxDepth.
//
// Failing to list the root is the only fatal condition: it returns an *Error
// of kind KindRootUnreadable and no matches. Every other failure is reported
// through the configured Reporter and the search carries on.
func Search(fsys fsutil.Filesystem, req Request, opts ...Option) ([]Match, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	walker := NewWalker(fsys, req.Query, opts...)
	if req.SkipHidden {
		walker.skipHidden = true
	}

	children, err := fsys.ReadDir(req.Root)
	if err != nil {
		walker.stats.diagnostic(KindRootUnreadable)
		return nil, &Error{Kind: KindRootUnreadable, Path: req.Root, Err: err}
	}
	walker.stats.dirListed()

	return walker.walk(pushChildren(nil, children, req.MaxDepth)), nil
}

// Stats counts the work done by a search. A nil *Stats is valid and counts nothing.
type Stats struct {
	FilesScanned int
	LinesRead    int
	DirsListed   int
	Diagnostics  map[Kind]int
}

func (s *Stats) fileScanned() {
	if s != nil {
		s.FilesScanned++
	}
}

func (s *Stats) lineRead() {
	if s != nil {
		s.LinesRead++
	}
}

func (s *Stats) dirListed() {
	if s != nil {
		s.DirsListed++
	}
}

func (s *Stats) diagnostic(kind Kind) {
	if s == nil {
		return
	}
	if s.Diagnostics == nil {
		s.Diagnostics = make(map[Kind]int)
	}
	s.Diagnostics[kind]++
}

// Failures returns the number of non-notice diagnostics.
func (s *Stats) Failures() int {
	if s == nil {
		return 0
	}
	total := 0
	for kind, n := range s.Diagnostics {
		if !kind.IsNotice() {
			total += n
		}
	}
	return total
}
