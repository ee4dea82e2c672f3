package search

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	fsutil "github.com/kk-code-lab/rseek/internal/fs"
)

var errInjected = errors.New("injected failure")

// newMemTree builds an in-memory tree. Keys ending in "/" create empty directories.
func newMemTree(t *testing.T, files map[string]string) *fsutil.BillyFS {
	t.Helper()
	mem := memfs.New()
	writeMemTree(t, mem, files)
	return fsutil.NewBillyFS(mem)
}

func writeMemTree(t *testing.T, mem billy.Filesystem, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			require.NoError(t, mem.MkdirAll(strings.TrimSuffix(path, "/"), 0o755))
			continue
		}
		require.NoError(t, util.WriteFile(mem, path, []byte(content), 0o644))
	}
}

// faultyFS injects failures into an otherwise working Filesystem.
type faultyFS struct {
	fsutil.Filesystem
	lstatErr   map[string]error
	readDirErr map[string]error
	openErr    map[string]error
	// badChild marks listed children (by full path) as enumeration failures.
	badChild map[string]bool
	// failAfter makes reads of a file fail once the given prefix was served.
	failAfter map[string]string
	opened    int
	closed    int
}

func (f *faultyFS) ReadDir(dir string) ([]fsutil.Entry, error) {
	if err, ok := f.readDirErr[dir]; ok {
		return nil, err
	}
	entries, err := f.Filesystem.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if f.badChild[entries[i].Path] {
			entries[i] = fsutil.Entry{Name: entries[i].Name, Path: dir, Err: errInjected}
		}
	}
	return entries, nil
}

func (f *faultyFS) Lstat(name string) (os.FileInfo, error) {
	if err, ok := f.lstatErr[name]; ok {
		return nil, err
	}
	return f.Filesystem.Lstat(name)
}

func (f *faultyFS) Open(name string) (io.ReadCloser, error) {
	if err, ok := f.openErr[name]; ok {
		return nil, err
	}
	if prefix, ok := f.failAfter[name]; ok {
		f.opened++
		r := io.MultiReader(strings.NewReader(prefix), iotest.ErrReader(errInjected))
		return &countingCloser{Reader: r, onClose: f.markClosed}, nil
	}
	rc, err := f.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	f.opened++
	return &countingCloser{Reader: rc, onClose: func() {
		f.markClosed()
		_ = rc.Close()
	}}, nil
}

func (f *faultyFS) markClosed() {
	f.closed++
}

type countingCloser struct {
	io.Reader
	onClose func()
}

func (c *countingCloser) Close() error {
	c.onClose()
	return nil
}

type collector struct {
	errs []*Error
}

func (c *collector) Report(err *Error) {
	c.errs = append(c.errs, err)
}

func (c *collector) kinds() []Kind {
	out := make([]Kind, 0, len(c.errs))
	for _, e := range c.errs {
		out = append(out, e.Kind)
	}
	return out
}

func (c *collector) paths(kind Kind) []string {
	var out []string
	for _, e := range c.errs {
		if e.Kind == kind {
			out = append(out, e.Path)
		}
	}
	return out
}

func fileNames(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.FileName)
	}
	return out
}

// vanishingBackend behaves like go-billy's osfs when a child disappears
// between listing and stat: the bulk ReadDir fails, names still list.
type vanishingBackend struct {
	billy.Filesystem
	gone map[string]bool
}

func (v *vanishingBackend) ReadDir(dir string) ([]os.FileInfo, error) {
	infos, err := v.Filesystem.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if v.gone[v.Join(dir, info.Name())] {
			return nil, &os.PathError{Op: "lstat", Path: v.Join(dir, info.Name()), Err: os.ErrNotExist}
		}
	}
	return infos, nil
}

func (v *vanishingBackend) Lstat(name string) (os.FileInfo, error) {
	if v.gone[name] {
		return nil, &os.PathError{Op: "lstat", Path: name, Err: os.ErrNotExist}
	}
	return v.Filesystem.Lstat(name)
}

func (v *vanishingBackend) ReadDirNames(dir string) ([]string, error) {
	infos, err := v.Filesystem.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}
