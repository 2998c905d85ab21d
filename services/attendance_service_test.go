package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/repository"
)

type fakeEmployees struct {
	byID map[primitive.ObjectID]*models.Employee
	err  error
}

func (f *fakeEmployees) FindEmployeeByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeEmployees) FindActiveEmployees(_ context.Context) ([]models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var active []models.Employee
	for _, e := range f.byID {
		if e.IsActive {
			active = append(active, *e)
		}
	}
	return active, nil
}

// fakeAttendance mimics the unique (employee_id, day) index and the
// conditional punch-out update.
type fakeAttendance struct {
	mu      sync.Mutex
	records []*models.Attendance

	// findGate, when set, is waited on by every FindByEmployeeAndDay call
	// after the lookup so concurrent callers observe the same snapshot.
	findGate *sync.WaitGroup
}

func (f *fakeAttendance) FindByEmployeeAndDay(_ context.Context, employeeID primitive.ObjectID, start, end time.Time) (*models.Attendance, error) {
	f.mu.Lock()
	var found *models.Attendance
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.Day.Before(start) && !r.Day.After(end) {
			copied := *r
			found = &copied
			break
		}
	}
	f.mu.Unlock()

	if f.findGate != nil {
		f.findGate.Done()
		f.findGate.Wait()
	}
	return found, nil
}

func (f *fakeAttendance) CreateAttendance(_ context.Context, attendance *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == attendance.EmployeeID && r.Day.Equal(attendance.Day) {
			return repository.ErrDuplicateKey
		}
	}
	attendance.ID = primitive.NewObjectID()
	copied := *attendance
	f.records = append(f.records, &copied)
	return nil
}

func (f *fakeAttendance) ClosePunch(_ context.Context, id primitive.ObjectID, punchOutAt time.Time, totalHours float64) (*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			if r.PunchOutAt != nil {
				return nil, nil
			}
			out := punchOutAt
			r.PunchOutAt = &out
			r.TotalHours = totalHours
			r.UpdatedAt = punchOutAt
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendance) FindWithEmployee(_ context.Context, query models.AttendanceQuery) ([]models.AttendanceWithEmployee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := []models.AttendanceWithEmployee{}
	for _, r := range f.records {
		if query.EmployeeID != nil && r.EmployeeID != *query.EmployeeID {
			continue
		}
		if !query.From.IsZero() && r.Day.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && r.Day.After(query.To) {
			continue
		}
		results = append(results, models.AttendanceWithEmployee{Attendance: *r})
	}
	return results, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.AttendanceEvent
}

func (n *recordingNotifier) Broadcast(event models.AttendanceEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type discardNotifier struct{}

func (discardNotifier) Broadcast(models.AttendanceEvent) {}

type fixture struct {
	service    *AttendanceService
	attendance *fakeAttendance
	employees  *fakeEmployees
	notifier   *recordingNotifier
	employee   *models.Employee
	loc        *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := time.FixedZone("WIB", 7*60*60)
	employee := &models.Employee{ID: primitive.NewObjectID(), Name: "Sari", IsActive: true}
	inactive := &models.Employee{ID: primitive.NewObjectID(), Name: "Dewi", IsActive: false}

	f := &fixture{
		attendance: &fakeAttendance{},
		employees: &fakeEmployees{byID: map[primitive.ObjectID]*models.Employee{
			employee.ID: employee,
			inactive.ID: inactive,
		}},
		notifier: &recordingNotifier{},
		employee: employee,
		loc:      loc,
	}
	f.service = NewAttendanceService(AttendanceServiceOptions{
		Attendance: f.attendance,
		Employees:  f.employees,
		Notifier:   f.notifier,
		Location:   loc,
	})
	return f
}

func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, f.loc)
}

func TestPunchInOnFreshDay(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.PunchAt(context.Background(), f.employee.ID.Hex(), f.at(9, 0))
	require.NoError(t, err)

	assert.Equal(t, models.PunchActionIn, result.Action)
	assert.Equal(t, "Punched in successfully", result.Message())
	assert.Nil(t, result.Attendance.PunchOutAt)
	assert.Equal(t, models.AttendanceStatusPresent, result.Attendance.Status)
	assert.True(t, result.Attendance.Day.Equal(f.at(0, 0)))
	assert.True(t, result.Attendance.PunchInAt.Equal(f.at(9, 0)))

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, models.PunchActionIn, f.notifier.events[0].Type)
	assert.Equal(t, f.employee.ID.Hex(), f.notifier.events[0].EmployeeID)
}

func TestSecondPunchClosesTheDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.PunchAt(ctx, f.employee.ID.Hex(), f.at(9, 0))
	require.NoError(t, err)

	result, err := f.service.PunchAt(ctx, f.employee.ID.Hex(), f.at(17, 30))
	require.NoError(t, err)

	assert.Equal(t, models.PunchActionOut, result.Action)
	assert.Equal(t, "Punched out successfully", result.Message())
	require.NotNil(t, result.Attendance.PunchOutAt)
	assert.True(t, result.Attendance.PunchOutAt.Equal(f.at(17, 30)))
	assert.Equal(t, 8.5, result.Attendance.TotalHours)

	require.Len(t, f.notifier.events, 2)
	assert.Equal(t, models.PunchActionOut, f.notifier.events[1].Type)
}

func TestThirdPunchIsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.employee.ID.Hex()

	_, err := f.service.PunchAt(ctx, id, f.at(9, 0))
	require.NoError(t, err)
	closed, err := f.service.PunchAt(ctx, id, f.at(17, 30))
	require.NoError(t, err)

	_, err = f.service.PunchAt(ctx, id, f.at(18, 0))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicatePunch, apperrors.CodeOf(err))

	require.Len(t, f.attendance.records, 1)
	stored := f.attendance.records[0]
	assert.True(t, stored.PunchOutAt.Equal(*closed.Attendance.PunchOutAt))
	assert.Equal(t, 8.5, stored.TotalHours)
	assert.Len(t, f.notifier.events, 2)
}

func TestPunchStartsNewRecordNextDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.employee.ID.Hex()

	_, err := f.service.PunchAt(ctx, id, f.at(9, 0))
	require.NoError(t, err)
	_, err = f.service.PunchAt(ctx, id, f.at(17, 0))
	require.NoError(t, err)

	result, err := f.service.PunchAt(ctx, id, f.at(9, 0).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, models.PunchActionIn, result.Action)
	assert.Len(t, f.attendance.records, 2)
}

func TestPunchUsesConfiguredDayBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.employee.ID.Hex()

	// 23:30 and 00:30 WIB straddle local midnight but share a UTC date.
	_, err := f.service.PunchAt(ctx, id, f.at(23, 30))
	require.NoError(t, err)
	result, err := f.service.PunchAt(ctx, id, f.at(23, 30).Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, models.PunchActionIn, result.Action)
	assert.Len(t, f.attendance.records, 2)
}

func TestPunchUnknownEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
	}{
		{"malformed id", "nonexistent-id"},
		{"unknown id", primitive.NewObjectID().Hex()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.PunchAt(ctx, tt.id, f.at(9, 0))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeEmployeeNotFound, apperrors.CodeOf(err))
		})
	}
	assert.Empty(t, f.attendance.records)
	assert.Empty(t, f.notifier.events)
}

func TestPunchInactiveEmployee(t *testing.T) {
	f := newFixture(t)

	var inactive *models.Employee
	for _, e := range f.employees.byID {
		if !e.IsActive {
			inactive = e
		}
	}
	require.NotNil(t, inactive)

	_, err := f.service.PunchAt(context.Background(), inactive.ID.Hex(), f.at(9, 0))
	assert.Equal(t, apperrors.ErrCodeEmployeeNotFound, apperrors.CodeOf(err))
}

func TestPunchStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.employees.err = errors.New("connection reset")

	_, err := f.service.PunchAt(context.Background(), f.employee.ID.Hex(), f.at(9, 0))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
	assert.ErrorContains(t, err, "connection reset")
}

func TestConcurrentFirstPunches(t *testing.T) {
	f := newFixture(t)
	gate := &sync.WaitGroup{}
	gate.Add(2)
	f.attendance.findGate = gate

	type outcome struct {
		result *PunchResult
		err    error
	}
	outcomes := make(chan outcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			result, err := f.service.PunchAt(context.Background(), f.employee.ID.Hex(), f.at(9, 0))
			outcomes <- outcome{result, err}
		}()
	}

	var punchIns, conflicts int
	for i := 0; i < 2; i++ {
		o := <-outcomes
		switch {
		case o.err == nil:
			assert.Equal(t, models.PunchActionIn, o.result.Action)
			punchIns++
		case apperrors.CodeOf(o.err) == apperrors.ErrCodePunchConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", o.err)
		}
	}

	assert.Equal(t, 1, punchIns)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.attendance.records, 1)
	assert.Len(t, f.notifier.events, 1)
}

func TestPunchWithoutNotifier(t *testing.T) {
	f := newFixture(t)
	service := NewAttendanceService(AttendanceServiceOptions{
		Attendance: f.attendance,
		Employees:  f.employees,
		Location:   f.loc,
	})

	result, err := service.PunchAt(context.Background(), f.employee.ID.Hex(), f.at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, models.PunchActionIn, result.Action)
}

func TestPunchUsesInjectedClock(t *testing.T) {
	f := newFixture(t)
	fixed := f.at(8, 15)
	service := NewAttendanceService(AttendanceServiceOptions{
		Attendance: f.attendance,
		Employees:  f.employees,
		Notifier:   discardNotifier{},
		Location:   f.loc,
		Now:        func() time.Time { return fixed },
	})

	result, err := service.Punch(context.Background(), f.employee.ID.Hex())
	require.NoError(t, err)
	assert.True(t, result.Attendance.PunchInAt.Equal(fixed))
}

func TestTotalHours(t *testing.T) {
	base := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		out      time.Time
		expected float64
	}{
		{"eight and a half", base.Add(8*time.Hour + 30*time.Minute), 8.5},
		{"rounds to two decimals", base.Add(time.Hour + 20*time.Minute), 1.33},
		{"same instant", base, 0},
		{"clock went backwards", base.Add(-time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalHours(base, tt.out))
		})
	}
}

func TestTotalHoursAcrossDSTUsesElapsedTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks jump from 02:00 to 03:00 on 2024-03-10.
	in := time.Date(2024, time.March, 10, 0, 0, 0, 0, loc)
	out := time.Date(2024, time.March, 10, 8, 0, 0, 0, loc)
	assert.Equal(t, 7.0, TotalHours(in, out))
}

func TestTodaySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second := &models.Employee{ID: primitive.NewObjectID(), Name: "Rina", IsActive: true}
	third := &models.Employee{ID: primitive.NewObjectID(), Name: "Maya", IsActive: true}
	f.employees.byID[second.ID] = second
	f.employees.byID[third.ID] = third

	_, err := f.service.PunchAt(ctx, f.employee.ID.Hex(), f.at(9, 0))
	require.NoError(t, err)
	_, err = f.service.PunchAt(ctx, f.employee.ID.Hex(), f.at(17, 0))
	require.NoError(t, err)
	_, err = f.service.PunchAt(ctx, second.ID.Hex(), f.at(10, 0))
	require.NoError(t, err)
	// Yesterday's record is outside today's window.
	_, err = f.service.PunchAt(ctx, third.ID.Hex(), f.at(10, 0).AddDate(0, 0, -1))
	require.NoError(t, err)

	summary, err := f.service.SummaryAt(ctx, f.at(18, 0))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalEmployees)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.PunchedOut)
	assert.Equal(t, 1, summary.StillWorking)
	assert.Len(t, summary.Attendance, 2)
}

func TestTodaySummaryAfterDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.PunchAt(ctx, f.employee.ID.Hex(), f.at(9, 0))
	require.NoError(t, err)
	f.employee.IsActive = false

	summary, err := f.service.SummaryAt(ctx, f.at(12, 0))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalEmployees)
	assert.Equal(t, 1, summary.Present)
	assert.Equal(t, 0, summary.Absent)
	assert.Len(t, summary.Attendance, 1)
}

func TestListAttendanceFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.employee.ID.Hex()

	for day := 0; day < 3; day++ {
		_, err := f.service.PunchAt(ctx, id, f.at(9, 0).AddDate(0, 0, day))
		require.NoError(t, err)
	}

	all, err := f.service.ListAttendance(ctx, AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	oneDay, err := f.service.ListAttendance(ctx, AttendanceFilter{Date: "2024-03-05"})
	require.NoError(t, err)
	require.Len(t, oneDay, 1)
	assert.True(t, oneDay[0].Day.Equal(f.at(0, 0).AddDate(0, 0, 1)))

	ranged, err := f.service.ListAttendance(ctx, AttendanceFilter{EmployeeID: id, StartDate: "2024-03-04", EndDate: "2024-03-05"})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	other, err := f.service.ListAttendance(ctx, AttendanceFilter{EmployeeID: primitive.NewObjectID().Hex()})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListAttendanceRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter AttendanceFilter
	}{
		{"bad employee id", AttendanceFilter{EmployeeID: "abc"}},
		{"bad date", AttendanceFilter{Date: "04/03/2024"}},
		{"bad start date", AttendanceFilter{StartDate: "yesterday", EndDate: "2024-03-05"}},
		{"end before start", AttendanceFilter{StartDate: "2024-03-05", EndDate: "2024-03-04"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ListAttendance(ctx, tt.filter)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
		})
	}
}
