package repository

import (
	"context"
	"time"

	"axiom-backend/internal/database"
	"axiom-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CatRepo struct {
	collection *mongo.Collection
}

func NewCatRepo() *CatRepo {
	return &CatRepo{
		collection: database.GetCollection("cats"),
	}
}

func (r *CatRepo) Create(ctx context.Context, cat *models.Cat) error {
	cat.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, cat)
	if err != nil {
		return err
	}
	cat.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *CatRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Cat, error) {
	var cat models.Cat
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CatRepo) List(ctx context.Context, limit, skip int) ([]models.Cat, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cats := []models.Cat{}
	if err := cursor.All(ctx, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// EnsureIndexes creates the indexes for the cats collection.
func (r *CatRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "genome", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
