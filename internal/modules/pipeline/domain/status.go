//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

import "time"

// Status is the persisted phase of the relay pipeline. Values read from disk
// that are not listed here mean "unknown": the driver takes no action.
// ENUM(collecting, pending_review, ready_to_publish)
type Status int

// StatusRecord is the current status together with the time it was entered
type StatusRecord struct {
	Status Status
	// Since is zero when the timestamp document is missing or unparsable
	Since time.Time
}

// HasTimestamp reports whether the transition time is known
func (r StatusRecord) HasTimestamp() bool {
	return !r.Since.IsZero()
}
