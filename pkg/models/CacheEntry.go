package models

import (
	"time"
)

/*
CacheEntry is what the album image cache holds for one album. A failed
fetch is stored too: Error is set and Images is empty.
*/
type CacheEntry struct {
	Images    []MediaAsset
	FetchedAt time.Time
	Error     string
}

func (e CacheEntry) Failed() bool {
	return e.Error != ""
}

func (e CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}
