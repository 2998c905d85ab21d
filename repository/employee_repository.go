package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parlour-attendance/config"
	"parlour-attendance/models"
)

type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	FindEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindActiveEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*models.Employee, error)
	DeactivateEmployee(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) EmployeeRepository {
	return &employeeRepository{
		collection: db.Collection(config.EmployeeCollection),
	}
}

func (r *employeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	now := time.Now()
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	employee.CreatedAt = now
	employee.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("employee email already exists: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) findOne(ctx context.Context, filter bson.M) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, filter).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

// FindEmployeeByID returns nil, nil when no employee has that id.
func (r *employeeRepository) FindEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	employee, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return employee, nil
}

func (r *employeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return employee, nil
}

func (r *employeeRepository) FindActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active employees: %w", err)
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}

// UpdateEmployee applies $set and returns the updated document, or nil, nil
// when the id does not exist.
func (r *employeeRepository) UpdateEmployee(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*models.Employee, error) {
	updateData["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var employee models.Employee
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updateData}, opts).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("employee email already exists: %w", ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return &employee, nil
}

// DeactivateEmployee is the soft delete: attendance keeps referencing the
// employee document.
func (r *employeeRepository) DeactivateEmployee(ctx context.Context, id primitive.ObjectID) (bool, error) {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return result.MatchedCount > 0, nil
}
