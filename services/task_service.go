package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/pkg/logger"
	util "parlour-attendance/pkg/utils"
	"parlour-attendance/repository"
)

type TaskServiceOptions struct {
	Tasks     repository.TaskRepository
	Employees EmployeeLookup
	Location  *time.Location
	Now       func() time.Time
	Logger    logger.Logger
}

type TaskService struct {
	tasks     repository.TaskRepository
	employees EmployeeLookup
	loc       *time.Location
	now       func() time.Time
	log       logger.Logger
}

func NewTaskService(opts TaskServiceOptions) *TaskService {
	s := &TaskService{
		tasks:     opts.Tasks,
		employees: opts.Employees,
		loc:       opts.Location,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Nop{}
	}
	return s
}

// TaskFilter holds the raw query parameters of a task listing.
type TaskFilter struct {
	AssignedTo string
	Status     string
}

var taskStatuses = map[string]bool{
	models.TaskStatusPending:    true,
	models.TaskStatusInProgress: true,
	models.TaskStatusCompleted:  true,
	models.TaskStatusCancelled:  true,
}

func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]models.TaskWithPeople, error) {
	var query models.TaskQuery
	if filter.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(filter.AssignedTo)
		if err != nil {
			return nil, apperrors.Validation("Invalid employee id")
		}
		query.AssignedTo = &id
	}
	if filter.Status != "" {
		if !taskStatuses[filter.Status] {
			return nil, apperrors.Validation("Invalid task status")
		}
		query.Status = filter.Status
	}

	tasks, err := s.tasks.FindTasksWithPeople(ctx, query)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.TaskWithPeople, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.TaskNotFound(err)
	}

	task, err := s.tasks.FindTaskWithPeopleByID(ctx, objID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if task == nil {
		return nil, apperrors.TaskNotFound(nil)
	}
	return task, nil
}

// Create records a task assigned by the authenticated user. The assignee
// must be an active employee.
func (s *TaskService) Create(ctx context.Context, assignedBy primitive.ObjectID, payload models.TaskCreatePayload) (*models.TaskWithPeople, error) {
	assignee, err := s.assignee(ctx, payload.AssignedTo)
	if err != nil {
		return nil, err
	}
	dueDate, err := s.parseDueDate(payload.DueDate)
	if err != nil {
		return nil, err
	}

	now := s.now().Truncate(time.Millisecond)
	task := &models.Task{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		AssignedTo:  assignee.ID,
		AssignedBy:  assignedBy,
		Status:      payload.Status,
		Priority:    payload.Priority,
		DueDate:     dueDate,
		CreatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == models.TaskStatusCompleted {
		task.CompletedAt = &now
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.Info("task %s assigned to employee %s", task.ID.Hex(), assignee.ID.Hex())

	return s.withPeople(ctx, task)
}

// Update changes only the fields present in payload. Moving to completed
// stamps completedAt once; moving to any other status clears it. An explicit
// completedAt wins over both.
func (s *TaskService) Update(ctx context.Context, id string, payload models.TaskUpdatePayload) (*models.TaskWithPeople, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.TaskNotFound(err)
	}
	current, err := s.tasks.FindTaskByID(ctx, objID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if current == nil {
		return nil, apperrors.TaskNotFound(nil)
	}

	now := s.now().Truncate(time.Millisecond)
	set := bson.M{}
	var unset []string

	if payload.Title != nil {
		set["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		set["description"] = strings.TrimSpace(*payload.Description)
	}
	if payload.AssignedTo != nil {
		assignee, err := s.assignee(ctx, *payload.AssignedTo)
		if err != nil {
			return nil, err
		}
		set["assigned_to"] = assignee.ID
	}
	if payload.Priority != nil {
		set["priority"] = *payload.Priority
	}
	if payload.DueDate != nil {
		dueDate, err := s.parseDueDate(*payload.DueDate)
		if err != nil {
			return nil, err
		}
		set["due_date"] = dueDate
	}
	if payload.Status != nil {
		set["status"] = *payload.Status
		switch {
		case *payload.Status == models.TaskStatusCompleted && current.CompletedAt == nil:
			set["completed_at"] = now
		case *payload.Status != models.TaskStatusCompleted:
			unset = append(unset, "completed_at")
		}
	}
	if payload.CompletedAt != nil {
		set["completed_at"] = *payload.CompletedAt
		unset = nil
	}

	if len(set) == 0 && len(unset) == 0 {
		return s.withPeople(ctx, current)
	}

	set["updated_at"] = now
	updated, err := s.tasks.UpdateTask(ctx, objID, set, unset)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, apperrors.TaskNotFound(nil)
	}
	return s.withPeople(ctx, updated)
}

// Delete removes the task document.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.TaskNotFound(err)
	}

	removed, err := s.tasks.DeleteTask(ctx, objID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !removed {
		return apperrors.TaskNotFound(nil)
	}

	s.log.Info("task %s deleted", id)
	return nil
}

func (s *TaskService) assignee(ctx context.Context, id string) (*models.Employee, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.AssigneeNotFound()
	}
	employee, err := s.employees.FindEmployeeByID(ctx, objID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if employee == nil || !employee.IsActive {
		return nil, apperrors.AssigneeNotFound()
	}
	return employee, nil
}

// parseDueDate accepts a calendar date (local midnight) or an RFC 3339
// timestamp.
func (s *TaskService) parseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if day, err := util.ParseDate(value, s.loc); err == nil {
		return day, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.Validation("Invalid dueDate, expected YYYY-MM-DD or RFC 3339")
}

// withPeople reloads task with its joined people. If the task vanished in
// between, it is returned without them.
func (s *TaskService) withPeople(ctx context.Context, task *models.Task) (*models.TaskWithPeople, error) {
	joined, err := s.tasks.FindTaskWithPeopleByID(ctx, task.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if joined == nil {
		return &models.TaskWithPeople{Task: *task}, nil
	}
	return joined, nil
}
