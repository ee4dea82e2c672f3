package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrInvalidEntry marks a listed child that has no usable name or metadata.
var ErrInvalidEntry = errors.New("invalid directory entry")

// Filesystem is the collaborator the search core walks over. Paths are in the
// backend's own namespace and are composed with Join.
type Filesystem interface {
	// ReadDir lists the immediate children of dir in enumeration order.
	ReadDir(dir string) ([]Entry, error)
	// Lstat returns metadata for name without following symlinks.
	Lstat(name string) (os.FileInfo, error)
	// Open opens name for sequential reading.
	Open(name string) (io.ReadCloser, error)
	Join(elem ...string) string
}

// Backend is the subset of go-billy a BillyFS needs. Both billy.Filesystem
// and the un-chrooted osfs.Default satisfy it.
type Backend interface {
	billy.Basic
	billy.Dir
}

// NameLister is implemented by backends that can list child names without
// statting each child. BillyFS uses it to recover a listing when the bulk
// ReadDir fails because of a single child.
type NameLister interface {
	ReadDirNames(dir string) ([]string, error)
}

// osBackend adds NameLister to the host filesystem. go-billy's osfs stats
// every child inside ReadDir and fails the whole listing when one of them
// vanishes or cannot be statted.
type osBackend struct {
	symlinkBackend
}

type symlinkBackend interface {
	Backend
	billy.Symlink
}

func (osBackend) ReadDirNames(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(dirEntries))
	for i, de := range dirEntries {
		names[i] = de.Name()
	}
	return names, nil
}

// BillyFS implements Filesystem on top of a go-billy filesystem.
type BillyFS struct {
	fs Backend
}

// NewBillyFS wraps any go-billy filesystem.
func NewBillyFS(fsys Backend) *BillyFS {
	return &BillyFS{fs: fsys}
}

// NewOSFS returns a Filesystem over the host filesystem. Paths are passed
// through unchanged, so relative paths resolve against the working directory.
func NewOSFS() *BillyFS {
	return NewBillyFS(osBackend{osfs.Default})
}

// NewMemFS returns an empty in-memory Filesystem.
func NewMemFS() *BillyFS {
	return NewBillyFS(memfs.New())
}

// ReadDir implements Filesystem.ReadDir. When the backend is a NameLister, a
// failed bulk listing is retried name by name and only the children that
// cannot be statted carry an Err.
func (b *BillyFS) ReadDir(dir string) ([]Entry, error) {
	infos, err := b.fs.ReadDir(dir)
	if err != nil {
		if entries, ok := b.readDirByName(dir); ok {
			return entries, nil
		}
		return nil, fmt.Errorf("billy: readdir %q: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for i, info := range infos {
		if info == nil {
			entries = append(entries, Entry{
				Path: dir,
				Err:  fmt.Errorf("billy: readdir %q: entry %d: %w", dir, i, ErrInvalidEntry),
			})
			continue
		}
		name := info.Name()
		if !validEntryName(name) {
			entries = append(entries, Entry{
				Name: name,
				Path: dir,
				Err:  fmt.Errorf("billy: readdir %q: entry %q: %w", dir, name, ErrInvalidEntry),
			})
			continue
		}
		entries = append(entries, Entry{
			Name: name,
			Path: b.fs.Join(dir, name),
		})
	}
	return entries, nil
}

func (b *BillyFS) readDirByName(dir string) ([]Entry, bool) {
	lister, ok := b.fs.(NameLister)
	if !ok {
		return nil, false
	}
	names, err := lister.ReadDirNames(dir)
	if err != nil {
		return nil, false
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if !validEntryName(name) {
			entries = append(entries, Entry{
				Name: name,
				Path: dir,
				Err:  fmt.Errorf("billy: readdir %q: entry %q: %w", dir, name, ErrInvalidEntry),
			})
			continue
		}
		path := b.fs.Join(dir, name)
		if _, err := b.Lstat(path); err != nil {
			entries = append(entries, Entry{Name: name, Path: dir, Err: err})
			continue
		}
		entries = append(entries, Entry{Name: name, Path: path})
	}
	return entries, true
}

// Lstat implements Filesystem.Lstat. Backends without symlink support fall
// back to Stat, which is equivalent there.
func (b *BillyFS) Lstat(name string) (os.FileInfo, error) {
	var (
		info os.FileInfo
		err  error
	)
	if sl, ok := b.fs.(billy.Symlink); ok {
		info, err = sl.Lstat(name)
	} else {
		info, err = b.fs.Stat(name)
	}
	if err != nil {
		return nil, fmt.Errorf("billy: lstat %q: %w", name, err)
	}
	return info, nil
}

// Open implements Filesystem.Open.
func (b *BillyFS) Open(name string) (io.ReadCloser, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return f, nil
}

// Join implements Filesystem.Join.
func (b *BillyFS) Join(elem ...string) string {
	return b.fs.Join(elem...)
}

func validEntryName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator)
}
