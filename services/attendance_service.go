package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/pkg/logger"
	util "parlour-attendance/pkg/utils"
	"parlour-attendance/repository"
)

// EmployeeLookup is the part of the employee store the attendance engine reads.
type EmployeeLookup interface {
	FindEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindActiveEmployees(ctx context.Context) ([]models.Employee, error)
}

// Notifier receives committed punch events. Implementations must not block
// for long and have no way to fail the punch.
type Notifier interface {
	Broadcast(event models.AttendanceEvent)
}

type AttendanceServiceOptions struct {
	Attendance repository.AttendanceRepository
	Employees  EmployeeLookup
	Notifier   Notifier
	Location   *time.Location
	Now        func() time.Time
	Logger     logger.Logger
}

type AttendanceService struct {
	attendance repository.AttendanceRepository
	employees  EmployeeLookup
	notifier   Notifier
	loc        *time.Location
	now        func() time.Time
	log        logger.Logger
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	s := &AttendanceService{
		attendance: opts.Attendance,
		employees:  opts.Employees,
		notifier:   opts.Notifier,
		loc:        opts.Location,
		now:        opts.Now,
		log:        opts.Logger,
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

type PunchResult struct {
	Attendance *models.Attendance
	Action     string
}

func (r *PunchResult) Message() string {
	if r.Action == models.PunchActionOut {
		return "Punched out successfully"
	}
	return "Punched in successfully"
}

// Punch records a punch for employeeID at the current time.
func (s *AttendanceService) Punch(ctx context.Context, employeeID string) (*PunchResult, error) {
	return s.PunchAt(ctx, employeeID, s.now())
}

// PunchAt advances the employee's record for the local day containing now:
// no record becomes punched in, punched in becomes punched out, and a day
// that is already punched out is rejected with DUPLICATE_PUNCH.
func (s *AttendanceService) PunchAt(ctx context.Context, employeeID string, now time.Time) (*PunchResult, error) {
	// Mongo keeps millisecond precision; truncating keeps the returned record
	// identical to what a later read will see.
	now = now.Truncate(time.Millisecond)

	employee, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	start, end := util.DayRange(now, s.loc)
	existing, err := s.attendance.FindByEmployeeAndDay(ctx, employee.ID, start, end)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var result *PunchResult
	switch {
	case existing == nil:
		result, err = s.punchIn(ctx, employee.ID, start, now)
	case existing.PunchedOut():
		return nil, apperrors.DuplicatePunch()
	default:
		result, err = s.punchOut(ctx, existing, now)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("%s recorded for employee %s at %s", result.Action, employee.ID.Hex(), now.In(s.loc).Format(time.RFC3339))
	s.notify(result.Action, employee.ID, now)
	return result, nil
}

func (s *AttendanceService) activeEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	id, err := primitive.ObjectIDFromHex(employeeID)
	if err != nil {
		return nil, apperrors.EmployeeNotFound(err)
	}

	employee, err := s.employees.FindEmployeeByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if employee == nil || !employee.IsActive {
		return nil, apperrors.EmployeeNotFound(nil)
	}
	return employee, nil
}

func (s *AttendanceService) punchIn(ctx context.Context, employeeID primitive.ObjectID, day, now time.Time) (*PunchResult, error) {
	record := &models.Attendance{
		EmployeeID: employeeID,
		Day:        day,
		PunchInAt:  now,
		Status:     models.AttendanceStatusPresent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.attendance.CreateAttendance(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.PunchConflict(err)
		}
		return nil, apperrors.Internal(err)
	}
	return &PunchResult{Attendance: record, Action: models.PunchActionIn}, nil
}

func (s *AttendanceService) punchOut(ctx context.Context, existing *models.Attendance, now time.Time) (*PunchResult, error) {
	hours := TotalHours(existing.PunchInAt, now)

	updated, err := s.attendance.ClosePunch(ctx, existing.ID, now, hours)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		// A concurrent request closed the day between our read and write.
		return nil, apperrors.DuplicatePunch()
	}
	return &PunchResult{Attendance: updated, Action: models.PunchActionOut}, nil
}

func (s *AttendanceService) notify(action string, employeeID primitive.ObjectID, at time.Time) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(models.AttendanceEvent{
		Type:       action,
		EmployeeID: employeeID.Hex(),
		Timestamp:  at,
	})
}

// TotalHours is the elapsed time between two instants in hours, rounded to
// two decimals. Instants are compared in absolute time, so a DST shift inside
// the shift does not change the result.
func TotalHours(punchIn, punchOut time.Time) float64 {
	elapsed := punchOut.Sub(punchIn)
	if elapsed < 0 {
		return 0
	}
	return math.Round(elapsed.Hours()*100) / 100
}

// TodaySummary folds today's records and the active employee count.
func (s *AttendanceService) TodaySummary(ctx context.Context) (*models.TodaySummary, error) {
	return s.SummaryAt(ctx, s.now())
}

func (s *AttendanceService) SummaryAt(ctx context.Context, now time.Time) (*models.TodaySummary, error) {
	employees, err := s.employees.FindActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	start, end := util.DayRange(now, s.loc)
	records, err := s.attendance.FindWithEmployee(ctx, models.AttendanceQuery{From: start, To: end})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summary := BuildSummary(len(employees), records)
	return &summary, nil
}

// AttendanceFilter carries raw query-string values.
type AttendanceFilter struct {
	Date       string
	EmployeeID string
	StartDate  string
	EndDate    string
}

// ListAttendance resolves the filter to a day range in the service time zone.
// Date selects a single day; StartDate and EndDate select an inclusive range
// and are only applied together.
func (s *AttendanceService) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceWithEmployee, error) {
	query, err := s.resolveFilter(filter)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.FindWithEmployee(ctx, query)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

func (s *AttendanceService) resolveFilter(filter AttendanceFilter) (models.AttendanceQuery, error) {
	var query models.AttendanceQuery

	if filter.EmployeeID != "" {
		id, err := primitive.ObjectIDFromHex(filter.EmployeeID)
		if err != nil {
			return query, apperrors.Validation("Invalid employee id")
		}
		query.EmployeeID = &id
	}

	if filter.Date != "" {
		day, err := util.ParseDate(filter.Date, s.loc)
		if err != nil {
			return query, apperrors.Validation(err.Error())
		}
		query.From, query.To = util.DayRange(day, s.loc)
		return query, nil
	}

	if filter.StartDate != "" && filter.EndDate != "" {
		from, err := util.ParseDate(filter.StartDate, s.loc)
		if err != nil {
			return query, apperrors.Validation(err.Error())
		}
		to, err := util.ParseDate(filter.EndDate, s.loc)
		if err != nil {
			return query, apperrors.Validation(err.Error())
		}
		if to.Before(from) {
			return query, apperrors.Validation(fmt.Sprintf("endDate %s is before startDate %s", filter.EndDate, filter.StartDate))
		}
		query.From = from
		query.To = util.EndOfDay(to, s.loc)
	}
	return query, nil
}

// LogDailyReport writes today's summary to the log; scheduled nightly.
func (s *AttendanceService) LogDailyReport(ctx context.Context) error {
	summary, err := s.TodaySummary(ctx)
	if err != nil {
		s.log.Error("daily attendance report failed: %v", err)
		return err
	}

	s.log.Info("daily attendance report %s: employees=%d present=%d absent=%d punchedOut=%d stillWorking=%d",
		s.now().In(s.loc).Format(util.DateLayout),
		summary.TotalEmployees, summary.Present, summary.Absent, summary.PunchedOut, summary.StillWorking)
	return nil
}
