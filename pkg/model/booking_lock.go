package model

import "time"

// BookingLock is an advisory lock serializing admission per room. The lock is
// taken by inserting a document whose _id is derived from the room id; the
// unique index on _id makes a second concurrent insert fail with a duplicate
// key error. A TTL index on expires_at reaps locks left behind by crashes.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
