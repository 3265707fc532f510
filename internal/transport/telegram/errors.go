package telegram

import (
	"time"

	"github.com/gotd/td/tgerr"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
)

const (
	errCaptionTooLong = "MEDIA_CAPTION_TOO_LONG"
	errSlowmodeWait   = "SLOWMODE_WAIT"
)

// classify maps RPC errors onto the gateway error taxonomy
func classify(err error) error {
	if err == nil {
		return nil
	}
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &gateway.RateLimitError{Wait: wait, Err: err}
	}
	if rpcErr, ok := tgerr.As(err); ok {
		switch {
		case rpcErr.IsType(errSlowmodeWait):
			return &gateway.RateLimitError{Wait: time.Duration(rpcErr.Argument) * time.Second, Err: err}
		case rpcErr.IsType(errCaptionTooLong):
			return gateway.ErrCaptionTooLong
		}
	}
	return err
}
