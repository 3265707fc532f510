package repository

import (
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/samber/oops"
)

// Document is the queue file name inside the state directory
const Document = "post_queue.json"

// FileStorage implements queue.Repository on top of the JSON document store
type FileStorage struct {
	store *store.Store
}

// NewFileStorage creates a new file-based queue repository
func NewFileStorage(s *store.Store) Repository {
	return &FileStorage{store: s}
}

func (s *FileStorage) Load() ([]domain.Post, error) {
	posts := []domain.Post{}
	if err := s.store.Load(Document, &posts, []domain.Post{}); err != nil {
		return nil, oops.With("document", Document, "context", "failed to load queue").Wrap(err)
	}
	return posts, nil
}

func (s *FileStorage) Save(posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	if err := s.store.Save(Document, posts); err != nil {
		return oops.With("document", Document, "posts", len(posts), "context", "failed to save queue").Wrap(err)
	}
	return nil
}
