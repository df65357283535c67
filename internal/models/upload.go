package models

import "time"

// Upload holds the stored metadata for one uploaded file.
type Upload struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	Path         string    `json:"-"` // Internal use, not exposed to client
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	CreatedAt    time.Time `json:"createdAt"`
}
