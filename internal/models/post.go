package models

import (
	"strings"
	"time"
)

// Post is a content item in the feed: one uploaded photo or video together
// with its metadata.
type Post struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Caption    string    `json:"caption,omitempty"`
	MediaURL   string    `json:"mediaUrl"`
	Location   string    `json:"location,omitempty"`
	People     []UserRef `json:"people,omitempty"`
	Creator    UserRef   `json:"creator"`
	UploadDate time.Time `json:"uploadDate"`
}

// IsImage reports whether the post's media is an image. The CDN encodes the
// media kind in the URL path.
func (p Post) IsImage() bool {
	return strings.Contains(p.MediaURL, "/image/upload")
}
