package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	util "parlour-attendance/pkg/utils"
	"parlour-attendance/services"
)

type TaskService interface {
	List(ctx context.Context, filter services.TaskFilter) ([]models.TaskWithPeople, error)
	Get(ctx context.Context, id string) (*models.TaskWithPeople, error)
	Create(ctx context.Context, assignedBy primitive.ObjectID, payload models.TaskCreatePayload) (*models.TaskWithPeople, error)
	Update(ctx context.Context, id string, payload models.TaskUpdatePayload) (*models.TaskWithPeople, error)
	Delete(ctx context.Context, id string) error
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAllTasks godoc
// @Summary List tasks
// @Description Newest first, with the assignee's and the assigner's name and email.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param assignedTo query string false "Employee ID"
// @Param status query string false "pending, in_progress, completed or cancelled"
// @Success 200 {array} models.TaskWithPeople
// @Failure 400 {object} models.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) GetAllTasks(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	tasks, err := h.service.List(ctx, services.TaskFilter{
		AssignedTo: c.Query("assignedTo"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// GetTask godoc
// @Summary Get task by ID
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.TaskWithPeople
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	task, err := h.service.Get(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// CreateTask godoc
// @Summary Create task
// @Description The logged-in user becomes the assigner. assignedTo must name an active employee.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body models.TaskCreatePayload true "Task data"
// @Success 201 {object} models.TaskWithPeople
// @Failure 400 {object} models.ErrorResponse "Validation error or assigned employee not found"
// @Failure 401 {object} models.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*models.Claims)
	if !ok {
		return respondError(c, apperrors.Unauthorized("User not found"))
	}

	var payload models.TaskCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	task, err := h.service.Create(ctx, claims.UserID, payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask godoc
// @Summary Update task
// @Description Only the fields present in the body are changed. Setting status to completed records completedAt; any other status clears it.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param task body models.TaskUpdatePayload true "Fields to change"
// @Success 200 {object} models.TaskWithPeople
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	var payload models.TaskUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	task, err := h.service.Update(ctx, c.Params("id"), payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Delete(ctx, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.MessageResponse{Message: "Task deleted successfully"})
}
