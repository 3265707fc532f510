//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// RejectReason explains why a post was refused by the validity filter
// ENUM(link,foreign_mention)
type RejectReason string
