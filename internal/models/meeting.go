package models

import "time"

// Meeting binds a host identity to exactly one recording. Meetings own their
// recording: no recording is shared across meetings, and deleting a meeting
// cascades to the recording and its viewer grants.
type Meeting struct {
	ID          int64     `json:"id"`
	HostEmail   string    `json:"host"`
	RecordingID int64     `json:"recording_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeetingDetail is a meeting joined with its recording and the emails granted
// viewing access.
type MeetingDetail struct {
	Meeting   Meeting
	Recording Recording
	Viewers   []string
}
