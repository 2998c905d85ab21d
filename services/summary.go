package services

import "parlour-attendance/models"

// BuildSummary derives the dashboard counters from today's records.
func BuildSummary(totalEmployees int, records []models.AttendanceWithEmployee) models.TodaySummary {
	summary := models.TodaySummary{
		TotalEmployees: totalEmployees,
		Attendance:     records,
	}
	if summary.Attendance == nil {
		summary.Attendance = []models.AttendanceWithEmployee{}
	}

	for i := range records {
		record := &records[i].Attendance
		if record.PunchedIn() {
			summary.Present++
		}
		if record.PunchedOut() {
			summary.PunchedOut++
		}
		if record.PunchedIn() && !record.PunchedOut() {
			summary.StillWorking++
		}
	}

	// Records of employees deactivated after punching still count as present.
	summary.Absent = max(totalEmployees-summary.Present, 0)
	return summary
}
