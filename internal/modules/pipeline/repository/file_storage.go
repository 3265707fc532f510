package repository

import (
	"log/slog"
	"strings"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	statusDocument    = "status.json"
	timestampDocument = "status_timestamp.json"
	watermarkDocument = "last_ids.json"
	publishedDocument = "published.json"
)

type statusDoc struct {
	FinalStatus int `json:"final_status"`
}

type timestampDoc struct {
	Timestamp string `json:"timestamp"`
}

// Older writers emitted naive ISO-8601 timestamps; they are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// FileStorage implements pipeline.Repository using the JSON document store
type FileStorage struct {
	store *store.Store
}

// NewFileStorage creates a new file-based pipeline repository
func NewFileStorage(s *store.Store) Repository {
	return &FileStorage{store: s}
}

func (s *FileStorage) LoadStatus() (domain.StatusRecord, error) {
	var st statusDoc
	if err := s.store.Load(statusDocument, &st, statusDoc{FinalStatus: int(domain.StatusCollecting)}); err != nil {
		return domain.StatusRecord{}, oops.With("document", statusDocument, "context", "failed to load status").Wrap(err)
	}

	var ts timestampDoc
	if err := s.store.Load(timestampDocument, &ts, timestampDoc{}); err != nil {
		return domain.StatusRecord{}, oops.With("document", timestampDocument, "context", "failed to load status timestamp").Wrap(err)
	}

	return domain.StatusRecord{
		Status: domain.Status(st.FinalStatus),
		Since:  parseTimestamp(ts.Timestamp),
	}, nil
}

func (s *FileStorage) SaveStatus(status domain.Status, at time.Time) error {
	slog.Info("Updating pipeline status", "status", status.String(), "at", at.UTC().Format(time.RFC3339))

	// The timestamp goes first: a crash in between leaves the old status
	// with a fresh timestamp, never a new status with a stale one.
	if err := s.Restamp(at); err != nil {
		return err
	}
	if err := s.store.Save(statusDocument, statusDoc{FinalStatus: int(status)}); err != nil {
		return oops.With("document", statusDocument, "status", status.String()).Wrap(err)
	}
	return nil
}

func (s *FileStorage) Restamp(at time.Time) error {
	doc := timestampDoc{Timestamp: at.UTC().Format(time.RFC3339)}
	if err := s.store.Save(timestampDocument, doc); err != nil {
		return oops.With("document", timestampDocument).Wrap(err)
	}
	return nil
}

func (s *FileStorage) LoadWatermarks() (map[string]int64, error) {
	watermarks := map[string]int64{}
	if err := s.store.Load(watermarkDocument, &watermarks, map[string]int64{}); err != nil {
		return nil, oops.With("document", watermarkDocument, "context", "failed to load watermarks").Wrap(err)
	}
	if watermarks == nil {
		watermarks = map[string]int64{}
	}
	return watermarks, nil
}

func (s *FileStorage) SaveWatermarks(watermarks map[string]int64) error {
	if err := s.store.Save(watermarkDocument, watermarks); err != nil {
		return oops.With("document", watermarkDocument, "channels", len(watermarks)).Wrap(err)
	}
	return nil
}

func (s *FileStorage) LoadPublished(now time.Time) (map[string]time.Time, error) {
	// fingerprint -> expiry of the dedup entry in unix milliseconds
	doc := map[string]int64{}
	if err := s.store.Load(publishedDocument, &doc, map[string]int64{}); err != nil {
		return nil, oops.With("document", publishedDocument, "context", "failed to load published history").Wrap(err)
	}

	live := lo.PickBy(doc, func(_ string, until int64) bool {
		return until >= now.UnixMilli()
	})
	return lo.MapValues(live, func(until int64, _ string) time.Time {
		return time.UnixMilli(until).UTC()
	}), nil
}

func (s *FileStorage) SavePublished(published map[string]time.Time) error {
	doc := lo.MapValues(published, func(until time.Time, _ string) int64 {
		return until.UnixMilli()
	})
	if err := s.store.Save(publishedDocument, doc); err != nil {
		return oops.With("document", publishedDocument, "entries", len(doc)).Wrap(err)
	}
	return nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	slog.Warn("Unparsable status timestamp", "timestamp", raw)
	return time.Time{}
}
