package suggestion

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
)

const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// CourseSuggestion is a remedial course offer, either auto-generated by the
// evaluation policy (TeacherID unset) or created by a teacher. IsAccepted is
// tri-state: unset until the student responds.
type CourseSuggestion struct {
	ID                int           `json:"id"`
	StudentID         int           `json:"student_id"`
	TeacherID         null.Int      `json:"teacher_id"`
	CourseName        string        `json:"course_name"`
	CourseDescription string        `json:"course_description"`
	Reason            string        `json:"reason"`
	Priority          string        `json:"priority"`
	SubjectArea       string        `json:"subject_area"`
	TargetImprovement string        `json:"target_improvement"`
	BasedOnGrade      null.Float64  `json:"based_on_grade"`
	BasedOnAttendance null.Float64  `json:"based_on_attendance"`
	IsAccepted        null.Bool     `json:"is_accepted"`
	StudentFeedback   string        `json:"student_feedback"`
	CreatedAt         time.Time     `json:"created_at"` // UTC
}

// Pending reports whether the student has not yet accepted or declined.
func (cs *CourseSuggestion) Pending() bool { return !cs.IsAccepted.Valid }

// NewSuggestion is the boundary input for a teacher-created suggestion.
type NewSuggestion struct {
	StudentID         int    `json:"student_id" validate:"required"`
	CourseName        string `json:"course_name" validate:"required"`
	CourseDescription string `json:"course_description"`
	Reason            string `json:"reason" validate:"required"`
	Priority          string `json:"priority" validate:"required,oneof=critical high medium low"`
	SubjectArea       string `json:"subject_area"`
	TargetImprovement string `json:"target_improvement"`
}

func (ns *NewSuggestion) Validate(validate *validator.Validate) error {
	ns.CourseName = core.CleanString(ns.CourseName)
	ns.SubjectArea = core.CleanString(ns.SubjectArea)
	return validate.Struct(ns)
}
