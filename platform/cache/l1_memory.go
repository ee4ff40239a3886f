package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"paperqa_backend/models"
)

// MetadataCache is a small read-through cache in front of the document
// repository, so list/detail lookups do not hit Postgres on every request.
type MetadataCache struct {
	client *gocache.Cache
}

func InitMetadataCache(ttl time.Duration) *MetadataCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MetadataCache{
		client: gocache.New(ttl, 2*ttl),
	}
}

func (s *MetadataCache) Get(docID string) (*models.Document, bool) {
	v, ok := s.client.Get(docID)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*models.Document)
	return doc, ok
}

func (s *MetadataCache) Set(docID string, doc *models.Document) {
	s.client.Set(docID, doc, gocache.DefaultExpiration)
}

func (s *MetadataCache) Del(docID string) {
	s.client.Delete(docID)
}
