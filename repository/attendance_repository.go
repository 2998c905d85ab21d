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

type AttendanceRepository interface {
	FindByEmployeeAndDay(ctx context.Context, employeeID primitive.ObjectID, start, end time.Time) (*models.Attendance, error)
	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	ClosePunch(ctx context.Context, id primitive.ObjectID, punchOutAt time.Time, totalHours float64) (*models.Attendance, error)
	FindWithEmployee(ctx context.Context, query models.AttendanceQuery) ([]models.AttendanceWithEmployee, error)
}

type attendanceRepository struct {
	attendanceCollection *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) AttendanceRepository {
	return &attendanceRepository{
		attendanceCollection: db.Collection(config.AttendanceCollection),
	}
}

// FindByEmployeeAndDay returns nil, nil when the employee has no record in
// [start, end].
func (r *attendanceRepository) FindByEmployeeAndDay(ctx context.Context, employeeID primitive.ObjectID, start, end time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{
		"employee_id": employeeID,
		"day":         bson.M{"$gte": start, "$lte": end},
	}

	err := r.attendanceCollection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance by employee and day: %w", err)
	}
	return &attendance, nil
}

// CreateAttendance inserts a new record. A second record for the same
// (employee_id, day) is rejected by the unique index with ErrDuplicateKey.
func (r *attendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	if attendance.ID.IsZero() {
		attendance.ID = primitive.NewObjectID()
	}

	_, err := r.attendanceCollection.InsertOne(ctx, attendance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("attendance for this employee and day already exists: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

// ClosePunch sets the punch-out only if none is recorded yet. It returns
// nil, nil when the record was already closed (or does not exist).
func (r *attendanceRepository) ClosePunch(ctx context.Context, id primitive.ObjectID, punchOutAt time.Time, totalHours float64) (*models.Attendance, error) {
	filter := bson.M{
		"_id":          id,
		"punch_out_at": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"punch_out_at": punchOutAt,
			"total_hours":  totalHours,
			"updated_at":   punchOutAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var attendance models.Attendance
	err := r.attendanceCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to record punch-out: %w", err)
	}
	return &attendance, nil
}

func attendanceFilter(query models.AttendanceQuery) bson.M {
	filter := bson.M{}
	if query.EmployeeID != nil {
		filter["employee_id"] = *query.EmployeeID
	}

	day := bson.M{}
	if !query.From.IsZero() {
		day["$gte"] = query.From
	}
	if !query.To.IsZero() {
		day["$lte"] = query.To
	}
	if len(day) > 0 {
		filter["day"] = day
	}
	return filter
}

// FindWithEmployee lists records newest first, joined with the employee's
// name, email, position and department. Records whose employee document is
// gone are kept with a nil Employee.
func (r *attendanceRepository) FindWithEmployee(ctx context.Context, query models.AttendanceQuery) ([]models.AttendanceWithEmployee, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: attendanceFilter(query)}},
		{{Key: "$sort", Value: bson.D{{Key: "day", Value: -1}, {Key: "punch_in_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employee"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$employee"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "employee.phone", Value: 0},
			{Key: "employee.salary", Value: 0},
			{Key: "employee.hire_date", Value: 0},
			{Key: "employee.avatar", Value: 0},
			{Key: "employee.is_active", Value: 0},
			{Key: "employee.created_at", Value: 0},
			{Key: "employee.updated_at", Value: 0},
		}}},
	}

	cursor, err := r.attendanceCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance with employee details: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.AttendanceWithEmployee{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode attendance with employee details: %w", err)
	}
	return results, nil
}
