package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

// Gateway is the messaging platform capability the pipeline depends on.
// Implementations must classify send failures with RateLimitError and
// ErrCaptionTooLong; any other error is treated as transient.
type Gateway interface {
	// FetchMessages returns messages with ID greater than minID, ascending by ID.
	FetchMessages(ctx context.Context, channel string, minID int64, limit int) ([]*domain.Message, error)
	// DownloadMedia stores the message attachment under dir and returns its path.
	DownloadMedia(ctx context.Context, msg *domain.Message, dir string) (string, error)
	// SendText schedules a text post. entities format text and may be nil.
	SendText(ctx context.Context, channel, text string, entities []domain.Entity, scheduleAt time.Time) error
	// SendMedia sends paths as a single post or album with caption on the first item.
	SendMedia(ctx context.Context, channel string, paths []string, caption string, entities []domain.Entity, scheduleAt time.Time) error
}

// ErrCaptionTooLong means the platform rejected the caption outright; retrying
// the same post can never succeed.
var ErrCaptionTooLong = errors.New("media caption too long")

// RateLimitError is returned when the platform demands a pause before the next request.
type RateLimitError struct {
	Wait time.Duration
	Err  error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.Wait)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// AsRateLimit extracts the required wait from err.
func AsRateLimit(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.Wait, true
	}
	return 0, false
}
