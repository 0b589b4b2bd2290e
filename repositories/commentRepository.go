package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"urbanfix-be/models"
)

type CommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{comments: db.Collection("comments")}
}

func (r *CommentRepository) Add(ctx context.Context, comment *models.Comment) error {
	_, err := r.comments.InsertOne(ctx, comment)
	return err
}

// ListForIssue returns the issue's comments in ascending creation
// order. Internal comments are dropped unless includeInternal is set.
func (r *CommentRepository) ListForIssue(ctx context.Context, issueID primitive.ObjectID, includeInternal bool) ([]models.Comment, error) {
	query := bson.M{"issue": issueID}
	if !includeInternal {
		query["internal"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.comments.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
