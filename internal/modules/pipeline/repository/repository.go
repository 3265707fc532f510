package repository

import (
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
)

// Repository persists the pipeline bookkeeping documents: status,
// status timestamp, per-channel watermarks and the dispatched-fingerprint
// history.
type Repository interface {
	LoadStatus() (domain.StatusRecord, error)
	// SaveStatus records a transition; the timestamp is always rewritten.
	SaveStatus(status domain.Status, at time.Time) error
	// Restamp rewrites only the status timestamp.
	Restamp(at time.Time) error

	LoadWatermarks() (map[string]int64, error)
	SaveWatermarks(watermarks map[string]int64) error

	// LoadPublished returns fingerprints of dispatched posts that are still
	// inside the dedup horizon at now.
	LoadPublished(now time.Time) (map[string]time.Time, error)
	SavePublished(published map[string]time.Time) error
}
