package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
	AttendanceStatusHalfDay = "half-day"
)

const (
	PunchActionIn  = "punch-in"
	PunchActionOut = "punch-out"
)

// AttendanceUpdateTopic names the broadcast channel shared by every dashboard.
const AttendanceUpdateTopic = "attendance-update"

// Attendance is one employee's record for one local calendar day.
type Attendance struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employeeId" bson:"employee_id"`
	Day        time.Time          `json:"day" bson:"day"`
	PunchInAt  time.Time          `json:"punchInAt" bson:"punch_in_at"`
	PunchOutAt *time.Time         `json:"punchOutAt,omitempty" bson:"punch_out_at,omitempty"`
	TotalHours float64            `json:"totalHours" bson:"total_hours"`
	Status     string             `json:"status" bson:"status"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

func (a *Attendance) PunchedIn() bool {
	return !a.PunchInAt.IsZero()
}

func (a *Attendance) PunchedOut() bool {
	return a.PunchOutAt != nil && !a.PunchOutAt.IsZero()
}

// EmployeeSummary is the subset of employee fields joined onto attendance lists.
type EmployeeSummary struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Position   string             `json:"position" bson:"position"`
	Department string             `json:"department" bson:"department"`
}

type AttendanceWithEmployee struct {
	Attendance `bson:",inline"`
	Employee   *EmployeeSummary `json:"employee,omitempty" bson:"employee,omitempty"`
}

type PunchPayload struct {
	EmployeeID string `json:"employeeId" validate:"required"`
}

type PunchResponse struct {
	Message    string      `json:"message" example:"Punched in successfully"`
	Attendance *Attendance `json:"attendance"`
	Action     string      `json:"action" example:"punch-in"`
}

// AttendanceQuery filters attendance listings. Zero values mean "no filter".
type AttendanceQuery struct {
	EmployeeID *primitive.ObjectID
	From       time.Time
	To         time.Time
}

type TodaySummary struct {
	TotalEmployees int                      `json:"totalEmployees"`
	Present        int                      `json:"present"`
	Absent         int                      `json:"absent"`
	PunchedOut     int                      `json:"punchedOut"`
	StillWorking   int                      `json:"stillWorking"`
	Attendance     []AttendanceWithEmployee `json:"attendance"`
}

// AttendanceEvent is pushed to realtime subscribers after a committed punch.
type AttendanceEvent struct {
	Type       string    `json:"type"`
	EmployeeID string    `json:"employeeId"`
	Timestamp  time.Time `json:"timestamp"`
}
