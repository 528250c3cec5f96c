package model

import "time"

// CacheEntry is a previously confirmed (word, category) pair.
type CacheEntry struct {
	RecordedAt time.Time `json:"recorded_at"`
	Word       string    `json:"word"`
	Category   string    `json:"category"`
}
