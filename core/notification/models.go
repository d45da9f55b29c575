package notification

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Notification types
const (
	TypePerformance = "performance"
	TypeAttendance  = "attendance"
	TypeTest        = "test"
	TypeCareer      = "career"
	TypeImprovement = "improvement"
	TypeDeadline    = "deadline"
)

// Priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Notification struct {
	ID        int       `json:"id"`
	StudentID null.Int  `json:"student_id"`
	TeacherID null.Int  `json:"teacher_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"notification_type"`
	Priority  string    `json:"priority"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewNotification carries everything needed to notify one recipient.
// Email is optional; when set, high-priority notifications are also
// delivered by email.
type NewNotification struct {
	StudentID null.Int
	TeacherID null.Int
	Email     string
	Title     string
	Message   string
	Type      string
	Priority  string
}
