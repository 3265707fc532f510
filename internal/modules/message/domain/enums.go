//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MediaType represents the type of media content
// ENUM(photo,video,document,audio)
type MediaType string

// EntityType is a text formatting span kind carried through the relay
// ENUM(bold,italic,underline,strike,code,pre,spoiler,blockquote,text_url,url)
type EntityType string
