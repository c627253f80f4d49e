package reminder

import "coursebell/internal/api"

// Event bus channels published by this package.
const (
	// EventModal is the high-friction, deduplicated surface (blocking
	// confirmation UI).
	EventModal = "reminder.modal"
	// EventToast is the low-friction, non-deduplicated informational surface.
	EventToast = "reminder.toast"
	// EventConfirm asks for a post-class attendance confirmation.
	EventConfirm = "attendance.confirm"
)

// Notice is the payload for EventModal and EventToast.
type Notice struct {
	CourseID     string `json:"courseId"`
	CourseName   string `json:"courseName"`
	ScheduleDate string `json:"scheduleDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime,omitempty"`
}

func noticeFor(c Candidate) Notice {
	return Notice{
		CourseID:     c.ID,
		CourseName:   c.Name,
		ScheduleDate: c.ScheduleDate,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
	}
}

// Confirmation is the payload for EventConfirm.
type Confirmation struct {
	Course   api.TodayCourse `json:"course"`
	Schedule api.Schedule    `json:"schedule"`
}
