// Package media owns the image bytes behind photo entries.
// Photos are copied into a managed directory on save; from then on the
// journal only relies on the managed copy.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/flyride/journal/internal/domain"
)

// PhotoDirName is the managed subdirectory under the data root.
const PhotoDirName = "photos"

const defaultExt = ".jpg"

// LocalStore keeps photo files under <root>/photos, one file per photo named
// by the photo ID. The extension is kept so http.ServeContent can pick the
// content type from the name.
type LocalStore struct {
	dir    string
	thumbs *lru.Cache[thumbKey, []byte]
}

// NewLocalStore constructs a LocalStore under root. The managed directory is
// created lazily by Import.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{
		dir:    filepath.Join(root, PhotoDirName),
		thumbs: newThumbCache(),
	}
}

// Dir returns the managed photo directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Import copies the bytes at srcURI into the managed directory as <id><ext>
// and returns the file:// URI of the copy. The directory is created if absent.
// A failed copy removes the partial destination file but never the directory.
func (s *LocalStore) Import(ctx context.Context, srcURI, id string) (string, error) {
	src, err := PathFromURI(srcURI)
	if err != nil {
		return "", fmt.Errorf("media.LocalStore.Import: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("media.LocalStore.Import: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("media.LocalStore.Import: mkdir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = defaultExt
	}
	dst := filepath.Join(s.dir, id+ext)

	if err := copyFile(src, dst); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("media.LocalStore.Import: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", fmt.Errorf("media.LocalStore.Import: %w", err)
	}
	return fileURI(abs), nil
}

// Remove deletes the managed file behind uri. A missing file yields an error
// wrapping fs.ErrNotExist; callers decide whether that matters.
func (s *LocalStore) Remove(uri string) error {
	path, err := s.managedPath(uri)
	if err != nil {
		return fmt.Errorf("media.LocalStore.Remove: %w", err)
	}

	s.forgetThumbnails(path)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("media.LocalStore.Remove: %w", err)
	}
	return nil
}

// Open opens the managed file behind uri for reading.
// URIs outside the managed directory are rejected with domain.ErrNotFound.
func (s *LocalStore) Open(uri string) (*os.File, error) {
	path, err := s.managedPath(uri)
	if err != nil {
		return nil, fmt.Errorf("media.LocalStore.Open: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("media.LocalStore.Open: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("media.LocalStore.Open: %w", err)
	}
	return f, nil
}

// Sweep removes files in the managed directory whose photo ID is not in keep
// and whose modification time is older than grace. It returns how many files
// were removed. A missing directory is not an error.
func (s *LocalStore) Sweep(ctx context.Context, keep map[string]struct{}, grace time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("media.LocalStore.Sweep: %w", err)
	}

	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return 0, fmt.Errorf("media.LocalStore.Sweep: %w", err)
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, fmt.Errorf("media.LocalStore.Sweep: %w", err)
		}
		if e.IsDir() {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, ok := keep[id]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s.forgetThumbnails(path)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("media.LocalStore.Sweep: %w", err)
		}
		removed++
	}
	return removed, nil
}

// managedPath resolves uri and checks it lies inside the managed directory.
func (s *LocalStore) managedPath(uri string) (string, error) {
	path, err := PathFromURI(uri)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	if filepath.Dir(abs) != dir {
		return "", fmt.Errorf("%w: %s is not a managed photo", domain.ErrNotFound, uri)
	}
	return abs, nil
}

// PathFromURI turns a file:// URI or a bare filesystem path into a path.
// Any other scheme is a validation error.
func PathFromURI(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: uri is required", domain.ErrValidation)
	}
	if !strings.Contains(uri, "://") {
		return filepath.Clean(uri), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: invalid uri %q", domain.ErrValidation, uri)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: unsupported uri scheme %q", domain.ErrValidation, u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
