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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SpotCollectionName = "Spots"
)

type SpotRepository interface {
	Create(ctx context.Context, spot *model.Spot) error
	FindByID(ctx context.Context, id string) (*model.Spot, error)
	FindByLot(ctx context.Context, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, error)
	CountByLot(ctx context.Context, lotID string, status model.SpotStatus) (int64, error)
	TransitionStatus(ctx context.Context, id string, from, to model.SpotStatus) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSpotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSpotRepository(cfg *config.Config) SpotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpotRepository{
		cfg:        cfg,
		collection: db.Collection(SpotCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoSpotRepository) Create(ctx context.Context, spot *model.Spot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	spot.CreatedAt = now
	spot.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, spot)
	if err != nil {
		return fmt.Errorf("failed to create spot: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		spot.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpotRepository) FindByID(ctx context.Context, id string) (*model.Spot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", parkingerrors.ErrInvalidID, id)
	}

	var spot model.Spot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&spot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find spot: %w", err)
	}

	return &spot, nil
}

func (r *mongoSpotRepository) FindByLot(ctx context.Context, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"lot_id": lotID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "spot_number", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	defer cursor.Close(ctx)

	spots := []*model.Spot{}
	if err := cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode spots: %w", err)
	}

	return spots, nil
}

func (r *mongoSpotRepository) CountByLot(ctx context.Context, lotID string, status model.SpotStatus) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"lot_id": lotID}
	if status != "" {
		filter["status"] = status
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count spots: %w", err)
	}
	return count, nil
}

// TransitionStatus moves a spot from one status to another with a conditional
// update. The filter matches on the expected current status, so a concurrent
// transition that got there first makes this one match zero documents and
// return ErrStatusConflict.
func (r *mongoSpotRepository) TransitionStatus(ctx context.Context, id string, from, to model.SpotStatus) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", parkingerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition spot status: %w", err)
	}

	if result.MatchedCount == 0 {
		return parkingerrors.ErrStatusConflict
	}
	return nil
}

func (r *mongoSpotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
