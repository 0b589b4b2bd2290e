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

var ErrDepartmentNotFound = errors.New("department not found")

type DepartmentRepository struct {
	departments *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{departments: db.Collection("departments")}
}

func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	_, err := r.departments.InsertOne(ctx, department)
	return err
}

// ListActive returns active departments ordered by name ascending.
func (r *DepartmentRepository) ListActive(ctx context.Context) ([]models.Department, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.departments.Find(ctx, bson.M{"active": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	departments := []models.Department{}
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var department models.Department
	err := r.departments.FindOne(ctx, bson.M{"_id": id}).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &department, nil
}

func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	var department models.Department
	err := r.departments.FindOne(ctx, bson.M{"name": name}).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &department, nil
}

// ResolveRef normalizes a department reference from request input to
// the department's id hex. An ObjectID hex is matched by id; anything
// else falls back to a name lookup (back-compat for older clients that
// sent names). Unknown references are returned unchanged.
func (r *DepartmentRepository) ResolveRef(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	if id, err := primitive.ObjectIDFromHex(ref); err == nil {
		if _, err := r.FindByID(ctx, id); err == nil {
			return id.Hex()
		}
	}
	if department, err := r.FindByName(ctx, ref); err == nil {
		return department.ID.Hex()
	}
	return ref
}
