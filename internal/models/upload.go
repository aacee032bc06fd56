// Package models defines the data records exchanged with the validation API.
package models

import "strings"

// Validation outcomes that will not change further. Anything else reported
// by the server means the upload is still being processed.
const (
	StatusGood = "good"
	StatusBad  = "bad"
)

// Session is the response of GET /auth/me.
type Session struct {
	Authed bool `json:"authed"`
}

// UploadResult is the record returned by POST /uploads for one file.
// Because the server validates before replying, the validation outcome is
// usually already present here; StatusURL points at the polling endpoint
// for the cases where it is not.
type UploadResult struct {
	UploadID    string   `json:"upload_id"`
	Filename    string   `json:"filename"`
	Folder      string   `json:"folder"`
	Bucket      string   `json:"bucket,omitempty"`
	ObjectKey   string   `json:"object_key,omitempty"`
	RecordKey   string   `json:"record_key,omitempty"`
	Status      string   `json:"status"`
	Passed      *bool    `json:"passed,omitempty"`
	ValidatedAt string   `json:"validated_at,omitempty"`
	Message     string   `json:"message,omitempty"`
	Issues      []string `json:"issues,omitempty"`
	StatusURL   string   `json:"status_url"`
}

// StatusRecord is the response of GET /status/{upload_id}.
type StatusRecord struct {
	UploadID    string   `json:"upload_id"`
	Filename    string   `json:"filename"`
	Folder      string   `json:"folder,omitempty"`
	Status      string   `json:"status"`
	Passed      *bool    `json:"passed,omitempty"`
	ValidatedAt string   `json:"validated_at,omitempty"`
	Message     string   `json:"message,omitempty"`
	Issues      []string `json:"issues,omitempty"`
}

// Terminal reports whether the validation outcome is final. The server's
// status vocabulary is not formally enumerated beyond good/bad, so any
// third value counts as still pending.
func (r *StatusRecord) Terminal() bool {
	return IsTerminalStatus(r.Status)
}

// IsTerminalStatus reports whether a status string is a final outcome.
// Comparison is case-insensitive.
func IsTerminalStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == StatusGood || s == StatusBad
}

// Health is the response of GET /health.
type Health struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
