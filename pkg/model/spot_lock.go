package model

import "time"

// SpotLock is an advisory lock preventing two requests from mutating the same
// spot at once. Locks auto-expire via a TTL index on expires_at.
type SpotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
