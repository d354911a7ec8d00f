package activity

import "time"

// Entry is a single recorded action. Entries are immutable once created
// and kept newest-first.
type Entry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}
