package fs

import (
	"os"
	"path/filepath"
)

// Kind classifies an entry for traversal.
type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "other"
	}
}

// KindOf classifies a mode as reported by Lstat. Symlinks, devices, sockets
// and pipes all fall into KindOther.
func KindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}

// Entry represents a single child produced by a directory listing.
type Entry struct {
	Name string
	Path string
	// Err is set when the listing yielded a child that cannot be used.
	Err error
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.Name)
}

// BaseName returns the last element of path. ok is false when path has no
// usable final element (empty, ".", ".." or a bare separator).
func BaseName(path string) (name string, ok bool) {
	if path == "" {
		return "", false
	}
	name = filepath.Base(path)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", false
	}
	return name, true
}
