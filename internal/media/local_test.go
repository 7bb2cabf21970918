package media_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/media"
	"github.com/flyride/journal/testutil"
)

func TestLocalStore_Import_CopiesIntoManagedDir(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "IMG_0001.JPG", 8, 8)
	s := media.NewLocalStore(t.TempDir())

	uri, err := s.Import(context.Background(), "file://"+filepath.ToSlash(src), "photo-1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "file://"))
	assert.True(t, strings.HasSuffix(uri, "/photos/photo-1.jpg"), uri)

	path, err := media.PathFromURI(uri)
	require.NoError(t, err)
	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The source is no longer needed once the copy exists.
	require.NoError(t, os.Remove(src))
	f, err := s.Open(uri)
	require.NoError(t, err)
	f.Close()
}

func TestLocalStore_Import_BarePathAndDefaultExt(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "capture")
	require.NoError(t, os.WriteFile(src, []byte("raw bytes"), 0o644))
	s := media.NewLocalStore(t.TempDir())

	uri, err := s.Import(context.Background(), src, "p2")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(uri, "/photos/p2.jpg"), uri)
}

func TestLocalStore_Import_MissingSource(t *testing.T) {
	root := t.TempDir()
	s := media.NewLocalStore(root)

	_, err := s.Import(context.Background(), "file:///definitely/not/here.jpg", "p3")

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	// The directory may be left behind, but no file for p3.
	entries, _ := os.ReadDir(s.Dir())
	assert.Empty(t, entries)
}

func TestLocalStore_Import_UnsupportedScheme(t *testing.T) {
	s := media.NewLocalStore(t.TempDir())

	_, err := s.Import(context.Background(), "https://example.com/a.jpg", "p4")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLocalStore_Remove(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "a.jpg", 4, 4)
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p5")
	require.NoError(t, err)

	require.NoError(t, s.Remove(uri))

	err = s.Remove(uri)
	assert.ErrorIs(t, err, fs.ErrNotExist, "second remove reports the missing file")
}

func TestLocalStore_Open_OutsideManagedDir(t *testing.T) {
	outside := testutil.WriteJPEG(t, t.TempDir(), "secret.jpg", 4, 4)
	s := media.NewLocalStore(t.TempDir())

	_, err := s.Open("file://" + filepath.ToSlash(outside))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_Thumbnail(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "wide.jpg", 600, 300)
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p6")
	require.NoError(t, err)

	data, err := s.Thumbnail(uri, 100)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), img.Bounds().Size())

	again, err := s.Thumbnail(uri, 100)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestLocalStore_Thumbnail_CacheIsBounded(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "tiny.jpg", 64, 64)
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p8")
	require.NoError(t, err)

	for size := uint(1); size <= 500; size++ {
		_, err := s.Thumbnail(uri, size)
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, s.CachedThumbnails(), media.ThumbnailCacheEntries)
}

func TestLocalStore_Thumbnail_ClampsSize(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "pano.jpg", 1200, 600)
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p9")
	require.NoError(t, err)

	huge, err := s.Thumbnail(uri, 65535)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(huge))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(media.MaxThumbnailSize, media.MaxThumbnailSize/2), img.Bounds().Size())

	// Every oversized request shares the clamped cache entry.
	_, err = s.Thumbnail(uri, 5000)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CachedThumbnails())
}

func TestLocalStore_Remove_DropsCachedThumbnails(t *testing.T) {
	src := testutil.WriteJPEG(t, t.TempDir(), "a.jpg", 32, 32)
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p10")
	require.NoError(t, err)

	for _, size := range []uint{8, 16, 0} {
		_, err := s.Thumbnail(uri, size)
		require.NoError(t, err)
	}
	require.Equal(t, 3, s.CachedThumbnails())

	require.NoError(t, s.Remove(uri))

	assert.Zero(t, s.CachedThumbnails())
	_, err = s.Thumbnail(uri, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_Thumbnail_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.jpg")
	require.NoError(t, os.WriteFile(src, []byte("plain text"), 0o644))
	s := media.NewLocalStore(t.TempDir())
	uri, err := s.Import(context.Background(), src, "p7")
	require.NoError(t, err)

	_, err = s.Thumbnail(uri, 0)

	assert.Error(t, err)
}

func TestLocalStore_Sweep(t *testing.T) {
	s := media.NewLocalStore(t.TempDir())
	ctx := context.Background()
	src := testutil.WriteJPEG(t, t.TempDir(), "a.jpg", 4, 4)

	keepURI, err := s.Import(ctx, src, "keep")
	require.NoError(t, err)
	orphanURI, err := s.Import(ctx, src, "orphan")
	require.NoError(t, err)
	freshURI, err := s.Import(ctx, src, "fresh")
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, uri := range []string{keepURI, orphanURI} {
		p, err := media.PathFromURI(uri)
		require.NoError(t, err)
		require.NoError(t, os.Chtimes(p, old, old))
	}

	removed, err := s.Sweep(ctx, map[string]struct{}{"keep": {}}, time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	for uri, exists := range map[string]bool{keepURI: true, orphanURI: false, freshURI: true} {
		f, err := s.Open(uri)
		if exists {
			require.NoError(t, err, uri)
			_, _ = io.Copy(io.Discard, f)
			f.Close()
		} else {
			assert.ErrorIs(t, err, domain.ErrNotFound, uri)
		}
	}
}

func TestLocalStore_Sweep_NoDirectory(t *testing.T) {
	s := media.NewLocalStore(t.TempDir())

	removed, err := s.Sweep(context.Background(), nil, 0)

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestLocalStore_Sweep_DropsCachedThumbnails(t *testing.T) {
	s := media.NewLocalStore(t.TempDir())
	ctx := context.Background()
	src := testutil.WriteJPEG(t, t.TempDir(), "a.jpg", 16, 16)

	keepURI, err := s.Import(ctx, src, "keep")
	require.NoError(t, err)
	orphanURI, err := s.Import(ctx, src, "orphan")
	require.NoError(t, err)
	for _, uri := range []string{keepURI, orphanURI} {
		_, err := s.Thumbnail(uri, 8)
		require.NoError(t, err)
	}
	require.Equal(t, 2, s.CachedThumbnails())

	removed, err := s.Sweep(ctx, map[string]struct{}{"keep": {}}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.CachedThumbnails())
	_, err = s.Thumbnail(orphanURI, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
