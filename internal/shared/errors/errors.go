package errors

import "errors"

var (
	ErrMissingSession        = errors.New("TELETHON_SESSION environment variable is required")
	ErrMissingAPICredentials = errors.New("API_ID and API_HASH environment variables are required")
	ErrMissingDestination    = errors.New("DESTINATION_CHANNEL environment variable is required")
	ErrLocked                = errors.New("another relay run holds the state lock")
)
