package models

import "time"

// PropertyImage is metadata about an uploaded binary. The blob itself lives
// in object storage under FileName; URL is a signed link that expires after
// the signing window even though this record persists, so consumers must
// tolerate stale URLs.
type PropertyImage struct {
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	URL          string    `json:"url"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
