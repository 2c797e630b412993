package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// Store is the directory-oriented byte store the caches are built on.
// All paths are slash-separated and relative to the store root.
type Store interface {
	MkdirAll(dir string) error
	// List returns the entry names in dir, sorted. A missing directory
	// yields an error satisfying errors.Is(err, fs.ErrNotExist).
	List(dir string) ([]string, error)
	Read(path string) ([]byte, error)
	// Write replaces path atomically: readers see either the previous
	// content or the full new payload, never a prefix.
	Write(path string, data []byte) error
	Remove(path string) error
	Exists(path string) bool
	// Path returns the location of path on the host filesystem.
	Path(path string) string
}

// tempPrefix marks in-flight writes. Names with this prefix never parse as
// cache entries, so listings skip them.
const tempPrefix = ".tmp-"

// DirStore is a Store rooted at a directory on the local filesystem.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at root. The directory is created lazily.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: filepath.Clean(root)}
}

// Root is the directory the store is scoped to.
func (s *DirStore) Root() string {
	return s.root
}

// Path maps rel into the store root. Leading slashes and ".." segments
// cannot escape the root.
func (s *DirStore) Path(rel string) string {
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(rel))
	return filepath.Join(s.root, clean)
}

func (s *DirStore) MkdirAll(dir string) error {
	return errorutil.EnsureDirectory(logger.Get().Logger, s.Path(dir), 0o755)
}

func (s *DirStore) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(s.Path(dir))
	if err != nil {
		return nil, errorutil.NewDirectoryError("list", s.Path(dir), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(path))
	if err != nil {
		return nil, errorutil.NewFileError("read", s.Path(path), err)
	}
	return data, nil
}

// Write stages data in a uniquely named sibling file and renames it into
// place, so an entry name never refers to a partially written payload.
func (s *DirStore) Write(path string, data []byte) error {
	target := s.Path(path)
	tmp := filepath.Join(filepath.Dir(target), tempPrefix+uuid.NewString())

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errorutil.LogFileError(logger.Get().Logger, errorutil.NewFileError("create_temp", tmp, err))
	}

	_, werr := f.Write(data)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmp)
		return errorutil.LogFileError(logger.Get().Logger, errorutil.NewFileError("write_temp", tmp, werr))
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return errorutil.LogFileError(logger.Get().Logger, errorutil.NewFileError("rename", target, err))
	}
	logger.LogFileOperation("write", target, int64(len(data)))
	return nil
}

// Remove deletes path. Removing a missing file is not an error.
func (s *DirStore) Remove(path string) error {
	if err := os.Remove(s.Path(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errorutil.NewFileError("remove", s.Path(path), err)
	}
	return nil
}

func (s *DirStore) Exists(path string) bool {
	_, err := os.Stat(s.Path(path))
	return err == nil
}

// join builds a store-relative path.
func join(elem ...string) string {
	return strings.Join(elem, "/")
}
