package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decode PNG screenshots as well as camera JPEGs

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nfnt/resize"
)

// DefaultThumbnailSize is the bounding box used when callers pass 0.
const DefaultThumbnailSize = 300

// MaxThumbnailSize caps the bounding box; larger requests are clamped to it.
const MaxThumbnailSize = 1024

// thumbnailCacheEntries bounds how many encoded thumbnails stay in memory.
const thumbnailCacheEntries = 128

const thumbnailQuality = 85

type thumbKey struct {
	path string
	size uint
}

func newThumbCache() *lru.Cache[thumbKey, []byte] {
	c, err := lru.New[thumbKey, []byte](thumbnailCacheEntries)
	if err != nil {
		panic(fmt.Sprintf("media: thumbnail cache: %v", err))
	}
	return c
}

// Thumbnail returns a JPEG of the managed photo scaled to fit a size×size box,
// preserving aspect ratio. 0 means DefaultThumbnailSize and anything above
// MaxThumbnailSize is clamped. Recent results are kept in a bounded LRU cache
// until evicted or the photo file is removed.
func (s *LocalStore) Thumbnail(uri string, size uint) ([]byte, error) {
	switch {
	case size == 0:
		size = DefaultThumbnailSize
	case size > MaxThumbnailSize:
		size = MaxThumbnailSize
	}
	path, err := s.managedPath(uri)
	if err != nil {
		return nil, fmt.Errorf("media.LocalStore.Thumbnail: %w", err)
	}

	key := thumbKey{path: path, size: size}
	if cached, ok := s.thumbs.Get(key); ok {
		return cached, nil
	}

	f, err := s.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("media.LocalStore.Thumbnail: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("media.LocalStore.Thumbnail: decode: %w", err)
	}

	thumb := resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("media.LocalStore.Thumbnail: encode: %w", err)
	}

	s.thumbs.Add(key, buf.Bytes())
	return buf.Bytes(), nil
}

// forgetThumbnails drops every cached size of the file at path.
func (s *LocalStore) forgetThumbnails(path string) {
	for _, k := range s.thumbs.Keys() {
		if k.path == path {
			s.thumbs.Remove(k)
		}
	}
}
