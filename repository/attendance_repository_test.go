package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"parlour-attendance/models"
)

const attendanceNS = "test.attendances"

func TestAttendanceRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	employeeID := primitive.NewObjectID()
	day := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)
	punchIn := day.Add(9 * time.Hour)

	mt.Run("find returns nil when no record", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attendanceNS, mtest.FirstBatch))

		got, err := repo.FindByEmployeeAndDay(context.Background(), employeeID, day, dayEnd)

		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("find decodes the record", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attendanceNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "employee_id", Value: employeeID},
			{Key: "day", Value: day},
			{Key: "punch_in_at", Value: punchIn},
			{Key: "status", Value: models.AttendanceStatusPresent},
		}))

		got, err := repo.FindByEmployeeAndDay(context.Background(), employeeID, day, dayEnd)

		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, id, got.ID)
		assert.True(mt, got.PunchInAt.Equal(punchIn))
		assert.False(mt, got.PunchedOut())
	})

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		record := &models.Attendance{EmployeeID: employeeID, Day: day, PunchInAt: punchIn}
		err := repo.CreateAttendance(context.Background(), record)

		require.NoError(mt, err)
		assert.False(mt, record.ID.IsZero())
	})

	mt.Run("create maps unique index violation", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.attendances index: employee_day_unique",
		}))

		err := repo.CreateAttendance(context.Background(), &models.Attendance{EmployeeID: employeeID, Day: day, PunchInAt: punchIn})

		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("close punch returns updated record", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		id := primitive.NewObjectID()
		punchOut := day.Add(17*time.Hour + 30*time.Minute)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "employee_id", Value: employeeID},
			{Key: "day", Value: day},
			{Key: "punch_in_at", Value: punchIn},
			{Key: "punch_out_at", Value: punchOut},
			{Key: "total_hours", Value: 8.5},
			{Key: "status", Value: models.AttendanceStatusPresent},
		}}))

		got, err := repo.ClosePunch(context.Background(), id, punchOut, 8.5)

		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.True(mt, got.PunchedOut())
		assert.True(mt, got.PunchOutAt.Equal(punchOut))
		assert.Equal(mt, 8.5, got.TotalHours)
	})

	mt.Run("close punch on closed record returns nil", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		got, err := repo.ClosePunch(context.Background(), primitive.NewObjectID(), punchIn, 0)

		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("list joins employee details", func(mt *mtest.T) {
		repo := NewAttendanceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attendanceNS, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "employee_id", Value: employeeID},
				{Key: "day", Value: day},
				{Key: "punch_in_at", Value: punchIn},
				{Key: "status", Value: models.AttendanceStatusPresent},
				{Key: "employee", Value: bson.D{
					{Key: "_id", Value: employeeID},
					{Key: "name", Value: "Maya Putri"},
					{Key: "email", Value: "maya@parlour.com"},
					{Key: "position", Value: "Stylist"},
					{Key: "department", Value: "Hair"},
				}},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "employee_id", Value: primitive.NewObjectID()},
				{Key: "day", Value: day},
				{Key: "punch_in_at", Value: punchIn},
				{Key: "status", Value: models.AttendanceStatusPresent},
			},
		))

		got, err := repo.FindWithEmployee(context.Background(), models.AttendanceQuery{From: day, To: dayEnd})

		require.NoError(mt, err)
		require.Len(mt, got, 2)
		require.NotNil(mt, got[0].Employee)
		assert.Equal(mt, "Maya Putri", got[0].Employee.Name)
		assert.Nil(mt, got[1].Employee)
	})
}

func TestAttendanceFilter(t *testing.T) {
	employeeID := primitive.NewObjectID()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, bson.M{}, attendanceFilter(models.AttendanceQuery{}))
	assert.Equal(t, bson.M{
		"employee_id": employeeID,
		"day":         bson.M{"$gte": from, "$lte": to},
	}, attendanceFilter(models.AttendanceQuery{EmployeeID: &employeeID, From: from, To: to}))
	assert.Equal(t, bson.M{"day": bson.M{"$gte": from}}, attendanceFilter(models.AttendanceQuery{From: from}))
}
