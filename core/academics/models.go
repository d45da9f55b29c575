package academics

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
)

// Attendance statuses
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Grade types
const (
	GradeQuiz       = "quiz"
	GradeMidterm    = "midterm"
	GradeFinal      = "final"
	GradeAssignment = "assignment"
	GradeProject    = "project"
)

var GradeTypes = []string{GradeQuiz, GradeMidterm, GradeFinal, GradeAssignment, GradeProject}

type Student struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

func (s *Student) FullName() string { return s.FirstName + " " + s.LastName }

type Teacher struct {
	ID        int      `json:"id"`
	UserID    null.Int `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Subject   string   `json:"subject"`
}

func (t *Teacher) FullName() string { return t.FirstName + " " + t.LastName }

type Attendance struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	TeacherID int       `json:"teacher_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"` // Present | Absent
}

type WeeklyTest struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	TeacherID null.Int  `json:"teacher_id"`
	TestDate  time.Time `json:"test_date"`
	Score     float64   `json:"score"`
}

type Grade struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	TeacherID  int       `json:"teacher_id"`
	Subject    string    `json:"subject"`
	GradeType  string    `json:"grade_type"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	Percentage float64   `json:"percentage"`
	Date       time.Time `json:"date"`
	Comments   string    `json:"comments"`
}

type ExamSchedule struct {
	ID           int       `json:"id"`
	Subject      string    `json:"subject"`
	ExamType     string    `json:"exam_type"`
	ExamDate     time.Time `json:"exam_date"`
	Description  string    `json:"description"`
	TeacherID    int       `json:"teacher_id"`
	StudentIDs   []int     `json:"student_ids"`
	ReminderSent bool      `json:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewGrade is the teacher-side input for recording a grade. The percentage
// is derived from score/max_score on save.
type NewGrade struct {
	StudentID int     `json:"student_id" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	GradeType string  `json:"grade_type" validate:"required,oneof=quiz midterm final assignment project"`
	Score     float64 `json:"score" validate:"gte=0"`
	MaxScore  float64 `json:"max_score" validate:"gt=0"`
	Comments  string  `json:"comments"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Subject = core.CleanString(ng.Subject)
	return validate.Struct(ng)
}

// NewExamSchedule is the teacher-side input for scheduling an exam.
type NewExamSchedule struct {
	Subject     string    `json:"subject" validate:"required"`
	ExamType    string    `json:"exam_type" validate:"required,oneof=quiz midterm final assignment project"`
	ExamDate    time.Time `json:"exam_date" validate:"required"`
	Description string    `json:"description"`
	StudentIDs  []int     `json:"student_ids" validate:"required,min=1"`
}

func (ne *NewExamSchedule) Validate(validate *validator.Validate) error {
	ne.Subject = core.CleanString(ne.Subject)
	return validate.Struct(ne)
}
