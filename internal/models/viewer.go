package models

import "time"

// ViewerGrant is an allow-list entry: viewer may see recording. Grants are not
// deduplicated; sharing twice leaves two rows, which is harmless.
type ViewerGrant struct {
	ID          int64     `json:"id"`
	ViewerEmail string    `json:"viewer"`
	RecordingID int64     `json:"recording_id"`
	CreatedAt   time.Time `json:"created_at"`
}
