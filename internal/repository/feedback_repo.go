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

// ListFilter carries the optional list criteria plus pagination. Zero values
// mean "not set"; all set criteria must match (conjunctive).
type ListFilter struct {
	Sentiment string
	Priority  string
	Tag       string
	Search    string
	Limit     int
	Skip      int
}

// buildQuery translates a ListFilter into the Mongo filter document. This is
// the only place list criteria become query keys.
func buildQuery(f ListFilter) bson.M {
	query := bson.M{}
	if f.Sentiment != "" {
		query["analysis.sentiment"] = f.Sentiment
	}
	if f.Priority != "" {
		query["analysis.priority"] = f.Priority
	}
	if f.Tag != "" {
		query["analysis.tags"] = f.Tag
	}
	if f.Search != "" {
		query["$text"] = bson.M{"$search": f.Search}
	}
	return query
}

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindByID returns the feedback with cat name/image joined from the cats
// collection when the document references a specimen. Returns nil if no
// document matches.
func (r *FeedbackRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "cats"},
			{Key: "localField", Value: "catId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "cat"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "catName", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$cat.name", 0}}}},
			{Key: "catSvgImage", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$cat.svgImage", 0}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "cat", Value: 0}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.Feedback
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// List returns matching feedback newest-first plus the total count over the
// same filter ignoring pagination.
func (r *FeedbackRepo) List(ctx context.Context, filter ListFilter) ([]models.Feedback, int64, error) {
	query := buildQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filter.Skip)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	results := []models.Feedback{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// UpdateNextAction atomically sets analysis.nextAction and returns the
// post-update document, or nil if no document matched.
func (r *FeedbackRepo) UpdateNextAction(ctx context.Context, id bson.ObjectID, nextAction string) (*models.Feedback, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Feedback
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"analysis.nextAction": nextAction}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteByID removes one document, reporting how many were removed (0 or 1).
func (r *FeedbackRepo) DeleteByID(ctx context.Context, id bson.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteManyByIDs removes every listed document in one round trip. Ids that
// never existed simply don't count toward the returned total.
func (r *FeedbackRepo) DeleteManyByIDs(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the indexes the list filters and text search rely on.
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "text", Value: "text"}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "analysis.sentiment", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "analysis.priority", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
