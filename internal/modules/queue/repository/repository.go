package repository

import (
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
)

// Repository persists the publish queue as a whole. Callers read the full
// snapshot, mutate it in memory and save the full replacement.
type Repository interface {
	Load() ([]domain.Post, error)
	Save(posts []domain.Post) error
}
