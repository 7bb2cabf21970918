package media

// CachedThumbnails reports how many encoded thumbnails are held in memory.
func (s *LocalStore) CachedThumbnails() int {
	return s.thumbs.Len()
}

const ThumbnailCacheEntries = thumbnailCacheEntries
