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

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	FindTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindTasksWithPeople(ctx context.Context, query models.TaskQuery) ([]models.TaskWithPeople, error)
	FindTaskWithPeopleByID(ctx context.Context, id primitive.ObjectID) (*models.TaskWithPeople, error)
	UpdateTask(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.Task, error)
	DeleteTask(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type taskRepository struct {
	taskCollection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &taskRepository{
		taskCollection: db.Collection(config.TaskCollection),
	}
}

func (r *taskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.UpdatedAt = task.CreatedAt

	if _, err := r.taskCollection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID returns nil, nil when no task has that id.
func (r *taskRepository) FindTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.taskCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return &task, nil
}

func taskFilter(query models.TaskQuery) bson.M {
	filter := bson.M{}
	if query.AssignedTo != nil {
		filter["assigned_to"] = *query.AssignedTo
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	return filter
}

// personLookup joins name and email from another collection into field as.
func personLookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: bson.D{{Key: "personId", Value: "$" + localField}}},
		{Key: "pipeline", Value: mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
				{Key: "$eq", Value: bson.A{"$_id", "$$personId"}},
			}}}}},
			{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}}},
		}},
		{Key: "as", Value: as},
	}}}
}

func unwindOptional(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

func taskPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		personLookup(config.EmployeeCollection, "assigned_to", "assignee"),
		unwindOptional("assignee"),
		personLookup(config.UserCollection, "assigned_by", "assigner"),
		unwindOptional("assigner"),
	}
}

func (r *taskRepository) aggregate(ctx context.Context, match bson.M) ([]models.TaskWithPeople, error) {
	cursor, err := r.taskCollection.Aggregate(ctx, taskPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.TaskWithPeople{}
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// FindTasksWithPeople lists tasks newest first with the assignee's and the
// assigner's name and email. A missing person leaves the field nil.
func (r *taskRepository) FindTasksWithPeople(ctx context.Context, query models.TaskQuery) ([]models.TaskWithPeople, error) {
	return r.aggregate(ctx, taskFilter(query))
}

func (r *taskRepository) FindTaskWithPeopleByID(ctx context.Context, id primitive.ObjectID) (*models.TaskWithPeople, error) {
	tasks, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

// UpdateTask applies $set and $unset and returns the updated document, or
// nil, nil when the id does not exist.
func (r *taskRepository) UpdateTask(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.Task, error) {
	if set == nil {
		set = bson.M{}
	}
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = time.Now()
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, field := range unset {
			fields[field] = ""
		}
		update["$unset"] = fields
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task models.Task
	err := r.taskCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) DeleteTask(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.taskCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.DeletedCount > 0, nil
}
