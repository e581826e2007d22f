package repository

import (
	"context"
	"errors"
	"fmt"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/pkg/config"
	mongotx "parkdeck/pkg/db/mongo"
	"parkdeck/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SessionCollectionName = "Sessions"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindOpenBySpot(ctx context.Context, spotID string) (*model.Session, error)
	Close(ctx context.Context, id string, checkOutTime time.Time, totalAmount float64) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSessionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		cfg:        cfg,
		collection: db.Collection(SessionCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create inserts an open session. The unique partial index on
// (spot_id, open=true) makes a second open session for the same spot fail
// with a duplicate key error.
func (r *mongoSessionRepository) Create(ctx context.Context, session *model.Session) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	session.Open = true
	session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", parkingerrors.ErrInvalidID, id)
	}

	var session model.Session
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) FindOpenBySpot(ctx context.Context, spotID string) (*model.Session, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"spot_id": spotID, "open": true}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open session: %w", err)
	}

	return &session, nil
}

// Close finalizes a session with a conditional update on open=true. A
// concurrent check-out that got there first makes this one match zero
// documents and return ErrSessionClosed.
func (r *mongoSessionRepository) Close(ctx context.Context, id string, checkOutTime time.Time, totalAmount float64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", parkingerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "open": true}
	update := bson.M{"$set": bson.M{
		"check_out_time": checkOutTime,
		"open":           false,
		"total_amount":   totalAmount,
		"payment_status": model.PaymentCompleted,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish "already closed" from "never existed"
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr == nil && count == 0 {
			return parkingerrors.ErrNotFound
		}
		return parkingerrors.ErrSessionClosed
	}
	return nil
}

func (r *mongoSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
