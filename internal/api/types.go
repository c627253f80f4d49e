package api

// envelope is the backend's uniform response shape.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Reminder is one due-reminder item from GET /attendance/reminders.
//
// Dates are "2006-01-02", times are "15:04", both in the backend's local zone.
type Reminder struct {
	CourseID     int64  `json:"courseId"`
	CourseName   string `json:"courseName"`
	ScheduleDate string `json:"scheduleDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime,omitempty"`
}

// Schedule is one weekly slot of a course.
type Schedule struct {
	Weekday   int    `json:"weekday"` // 1..7, Monday=1
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// TodayCourse is one item from GET /courses/today: a course scheduled today
// plus its attendance state for today's date.
type TodayCourse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Schedules        []Schedule `json:"schedules"`
	HasAttendance    bool       `json:"hasAttendance"`
	AttendanceStatus string     `json:"attendanceStatus,omitempty"`
}
