package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"parlour-attendance/models"
	util "parlour-attendance/pkg/utils"
)

type EmployeeService interface {
	List(ctx context.Context) ([]models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, payload models.EmployeeCreatePayload) (*models.Employee, error)
	Update(ctx context.Context, id string, payload models.EmployeeUpdatePayload) (*models.Employee, error)
	Deactivate(ctx context.Context, id string) error
}

type EmployeeHandler struct {
	service EmployeeService
}

func NewEmployeeHandler(service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// GetAllEmployees godoc
// @Summary List active employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Employee
// @Failure 500 {object} models.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) GetAllEmployees(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	employees, err := h.service.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(employees)
}

// GetEmployee godoc
// @Summary Get employee by ID
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	employee, err := h.service.Get(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(employee)
}

// CreateEmployee godoc
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body models.EmployeeCreatePayload true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} models.ValidationErrorResponse "Validation error or email already used"
// @Failure 500 {object} models.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var payload models.EmployeeCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	employee, err := h.service.Create(ctx, payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

// UpdateEmployee godoc
// @Summary Update employee
// @Description Only the fields present in the body are changed.
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param employee body models.EmployeeUpdatePayload true "Fields to change"
// @Success 200 {object} models.Employee
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	var payload models.EmployeeUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	employee, err := h.service.Update(ctx, c.Params("id"), payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(employee)
}

// DeleteEmployee godoc
// @Summary Deactivate employee
// @Description Soft delete: the employee is marked inactive and keeps its attendance history.
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Deactivate(ctx, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.MessageResponse{Message: "Employee deleted successfully"})
}
