package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"urbanfix-be/models"
)

// ErrIssueNotFound is returned when an issue id does not exist.
var ErrIssueNotFound = errors.New("issue not found")

// IssueFilter enumerates the supported list filters. Nil fields are
// ignored. Department matches the stored department reference exactly.
type IssueFilter struct {
	ReportedBy *primitive.ObjectID
	Status     *models.IssueStatus
	Category   *models.IssueCategory
	Department *string
	Limit      int64
	Offset     int64
}

type IssueRepository struct {
	client  *mongo.Client
	issues  *mongo.Collection
	history *mongo.Collection
}

func NewIssueRepository(client *mongo.Client, db *mongo.Database) *IssueRepository {
	return &IssueRepository{
		client:  client,
		issues:  db.Collection("issues"),
		history: db.Collection("status_history"),
	}
}

// Create inserts the issue and its initial history entry in one
// transaction, so a failed insert never leaves a dangling entry.
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue, entry *models.StatusHistoryEntry) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.issues.InsertOne(sc, issue); err != nil {
			return nil, err
		}
		if _, err := r.history.InsertOne(sc, entry); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *IssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// ApplyStatusUpdate persists an already-applied transition: the updated
// issue document and its new history entry are written in one
// transaction. If the issue disappeared since it was read, no history
// entry is written and ErrIssueNotFound is returned.
func (r *IssueRepository) ApplyStatusUpdate(ctx context.Context, issue *models.Issue, entry *models.StatusHistoryEntry) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.issues.ReplaceOne(sc, bson.M{"_id": issue.ID}, issue)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrIssueNotFound
		}
		if _, err := r.history.InsertOne(sc, entry); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// List returns issues matching the filter, newest first.
func (r *IssueRepository) List(ctx context.Context, filter IssueFilter) ([]models.Issue, int64, error) {
	query := bson.M{}
	if filter.ReportedBy != nil {
		query["reportedBy"] = *filter.ReportedBy
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.Department != nil {
		query["department"] = *filter.Department
	}

	total, err := r.issues.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(filter.Offset)
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.issues.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// ListForStats returns every issue, optionally scoped to a department,
// without pagination.
func (r *IssueRepository) ListForStats(ctx context.Context, department *string) ([]models.Issue, error) {
	query := bson.M{}
	if department != nil {
		query["department"] = *department
	}

	cursor, err := r.issues.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ListRecentWithGPS returns the newest issues that carry coordinates,
// for the public map view.
func (r *IssueRepository) ListRecentWithGPS(ctx context.Context, limit int64) ([]models.Issue, error) {
	query := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.issues.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// HistoryForIssue returns the issue's transition trail in ascending
// creation order.
func (r *IssueRepository) HistoryForIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.StatusHistoryEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.history.Find(ctx, bson.M{"issue": issueID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.StatusHistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
