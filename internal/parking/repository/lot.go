package repository

import (
	"context"
	"errors"
	"fmt"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/pkg/config"
	"parkdeck/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LotCollectionName = "Lots"
)

type LotRepository interface {
	Create(ctx context.Context, lot *model.Lot) error
	FindByID(ctx context.Context, id string) (*model.Lot, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Lot, error)
	Count(ctx context.Context) (int64, error)
}

type mongoLotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLotRepository(cfg *config.Config) LotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLotRepository{
		cfg:        cfg,
		collection: db.Collection(LotCollectionName),
	}
}

func (r *mongoLotRepository) Create(ctx context.Context, lot *model.Lot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lot.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, lot)
	if err != nil {
		return fmt.Errorf("failed to create lot: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lot.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLotRepository) FindByID(ctx context.Context, id string) (*model.Lot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", parkingerrors.ErrInvalidID, id)
	}

	var lot model.Lot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot: %w", err)
	}

	return &lot, nil
}

func (r *mongoLotRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Lot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer cursor.Close(ctx)

	lots := []*model.Lot{}
	if err := cursor.All(ctx, &lots); err != nil {
		return nil, fmt.Errorf("failed to decode lots: %w", err)
	}

	return lots, nil
}

func (r *mongoLotRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count lots: %w", err)
	}
	return count, nil
}
