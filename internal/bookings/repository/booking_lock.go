package repository

import (
	"context"
	"fmt"
	"staybook/pkg/config"
	"staybook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "booking_locks"
)

// BookingLockRepository provides per-room advisory locks. A lock is a
// document whose _id is the lock key; the unique index on _id makes a
// second concurrent Create fail with a duplicate key error. Deploys
// should carry a TTL index on expires_at so abandoned locks expire.
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Create inserts the lock document. A duplicate key error means another
// admission holds the lock; callers translate that into a retryable
// conflict.
func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock.CreatedAt = now
	if lock.ExpiresAt.IsZero() {
		lock.ExpiresAt = now.Add(r.cfg.BookingLockTTL)
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
