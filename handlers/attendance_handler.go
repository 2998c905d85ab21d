package handlers

import (
	"context"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

	"parlour-attendance/models"
	util "parlour-attendance/pkg/utils"
	"parlour-attendance/services"
)

type AttendanceService interface {
	Punch(ctx context.Context, employeeID string) (*services.PunchResult, error)
	TodaySummary(ctx context.Context) (*models.TodaySummary, error)
	ListAttendance(ctx context.Context, filter services.AttendanceFilter) ([]models.AttendanceWithEmployee, error)
}

type EmployeeFinder interface {
	Get(ctx context.Context, id string) (*models.Employee, error)
}

type AttendanceHandler struct {
	service   AttendanceService
	employees EmployeeFinder
}

func NewAttendanceHandler(service AttendanceService, employees EmployeeFinder) *AttendanceHandler {
	return &AttendanceHandler{service: service, employees: employees}
}

// Punch godoc
// @Summary Punch in or out
// @Description Records the first punch of the day as punch-in and the second as punch-out. A third punch on the same day is rejected.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param punch body models.PunchPayload true "Employee to punch"
// @Success 200 {object} models.PunchResponse
// @Failure 400 {object} models.ErrorResponse "Validation error or already punched in and out"
// @Failure 404 {object} models.ErrorResponse "Employee not found"
// @Failure 409 {object} models.ErrorResponse "Concurrent punch for the same employee"
// @Failure 500 {object} models.ErrorResponse
// @Router /attendance/punch [post]
func (h *AttendanceHandler) Punch(c *fiber.Ctx) error {
	var payload models.PunchPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	result, err := h.service.Punch(ctx, payload.EmployeeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.PunchResponse{
		Message:    result.Message(),
		Attendance: result.Attendance,
		Action:     result.Action,
	})
}

// GetTodayAttendance godoc
// @Summary Today's attendance summary
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TodaySummary
// @Failure 500 {object} models.ErrorResponse
// @Router /attendance/today [get]
func (h *AttendanceHandler) GetTodayAttendance(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	summary, err := h.service.TodaySummary(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

// GetAllAttendance godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD)"
// @Param employee query string false "Employee ID"
// @Success 200 {array} models.AttendanceWithEmployee
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /attendance [get]
func (h *AttendanceHandler) GetAllAttendance(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	records, err := h.service.ListAttendance(ctx, services.AttendanceFilter{
		Date:       c.Query("date"),
		EmployeeID: c.Query("employee"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// GetEmployeeAttendance godoc
// @Summary Attendance history of one employee
// @Description startDate and endDate are only applied together; endDate is inclusive.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Param startDate query string false "First day (YYYY-MM-DD)"
// @Param endDate query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} models.AttendanceWithEmployee
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /attendance/employee/{employeeId} [get]
func (h *AttendanceHandler) GetEmployeeAttendance(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	records, err := h.service.ListAttendance(ctx, services.AttendanceFilter{
		EmployeeID: c.Params("employeeId"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(records)
}

// GetEmployeeBadge godoc
// @Summary Employee badge QR code
// @Description PNG QR code (data URL) encoding the employee ID, scanned by punch kiosks.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} models.BadgeResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /attendance/employee/{employeeId}/badge [get]
func (h *AttendanceHandler) GetEmployeeBadge(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	employee, err := h.employees.Get(ctx, c.Params("employeeId"))
	if err != nil {
		return respondError(c, err)
	}

	png, err := qrcode.Encode(employee.ID.Hex(), qrcode.Medium, 256)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.BadgeResponse{
		EmployeeID:  employee.ID.Hex(),
		QRCodeImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}
