package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is work handed to an employee by a dashboard user.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	AssignedTo  primitive.ObjectID `json:"assignedTo" bson:"assigned_to"`
	AssignedBy  primitive.ObjectID `json:"assignedBy" bson:"assigned_by"`
	Status      string             `json:"status" bson:"status"`
	Priority    string             `json:"priority" bson:"priority"`
	DueDate     time.Time          `json:"dueDate" bson:"due_date"`
	CompletedAt *time.Time         `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// PersonSummary is the name and email joined onto a task for its assignee
// (an employee) and its assigner (a dashboard user).
type PersonSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

type TaskWithPeople struct {
	Task     `bson:",inline"`
	Assignee *PersonSummary `json:"assignee,omitempty" bson:"assignee,omitempty"`
	Assigner *PersonSummary `json:"assigner,omitempty" bson:"assigner,omitempty"`
}

// TaskCreatePayload takes dueDate as YYYY-MM-DD or RFC 3339.
type TaskCreatePayload struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	AssignedTo  string `json:"assignedTo" validate:"required,objectid"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"required"`
}

// TaskUpdatePayload uses pointers so an omitted field is left unchanged.
type TaskUpdatePayload struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssignedTo  *string    `json:"assignedTo,omitempty" validate:"omitempty,objectid"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string    `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskQuery filters task listings. Zero values mean "no filter".
type TaskQuery struct {
	AssignedTo *primitive.ObjectID
	Status     string
}
