package academics

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrExamNotFound    = errors.New("exam schedule not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		GetStudentByUserID(ctx context.Context, userID int) (Student, error)
		QueryActiveStudents(ctx context.Context) ([]Student, error)

		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id int) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID int) (Teacher, error)

		CreateAttendance(ctx context.Context, a Attendance) (Attendance, error)
		// QueryStudentAttendance returns entries ordered by date; the zero
		// time range means "all".
		QueryStudentAttendance(ctx context.Context, studentID int, from, to time.Time) ([]Attendance, error)

		CreateWeeklyTest(ctx context.Context, t WeeklyTest) (WeeklyTest, error)
		QueryStudentTests(ctx context.Context, studentID int) ([]WeeklyTest, error)
		// QueryRecentStudentTests returns the latest n tests, most recent first.
		QueryRecentStudentTests(ctx context.Context, studentID, n int) ([]WeeklyTest, error)

		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		QueryStudentGrades(ctx context.Context, studentID int) ([]Grade, error)
		// QueryStudentGradesBetween returns grades with from <= date < to,
		// most recent first.
		QueryStudentGradesBetween(ctx context.Context, studentID int, from, to time.Time) ([]Grade, error)

		CreateExamSchedule(ctx context.Context, e ExamSchedule) (ExamSchedule, error)
		QueryUpcomingExamsForStudent(ctx context.Context, studentID int, after time.Time) ([]ExamSchedule, error)
		QueryExamsByTeacher(ctx context.Context, teacherID int, after time.Time) ([]ExamSchedule, error)
		// QueryExamsDueReminder returns schedules within (now, until] whose
		// reminder has not been sent yet.
		QueryExamsDueReminder(ctx context.Context, now, until time.Time) ([]ExamSchedule, error)
		MarkExamReminderSent(ctx context.Context, examID int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Repo() Repository { return svc.repo }

func (svc *Service) StudentByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) StudentByUserID(ctx context.Context, userID int) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *Service) TeacherByUserID(ctx context.Context, userID int) (Teacher, error) {
	return svc.repo.GetTeacherByUserID(ctx, userID)
}

func (svc *Service) ActiveStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryActiveStudents(ctx)
}

// FeatureVectorFor aggregates the full history of one student into the fixed
// feature vector consumed by the prediction engine.
func (svc *Service) FeatureVectorFor(ctx context.Context, studentID int) (FeatureVector, error) {
	attendance, tests, grades, err := svc.records(ctx, studentID)
	if err != nil {
		return FeatureVector{}, err
	}
	return BuildFeatureVector(attendance, tests, grades), nil
}

// MetricsFor derives the suggestion-policy metrics for one student.
func (svc *Service) MetricsFor(ctx context.Context, studentID int) (Metrics, error) {
	attendance, tests, grades, err := svc.records(ctx, studentID)
	if err != nil {
		return Metrics{}, err
	}
	return ComputeMetrics(attendance, tests, grades), nil
}

func (svc *Service) records(ctx context.Context, studentID int) ([]Attendance, []WeeklyTest, []Grade, error) {
	attendance, err := svc.repo.QueryStudentAttendance(ctx, studentID, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, nil, err
	}
	tests, err := svc.repo.QueryStudentTests(ctx, studentID)
	if err != nil {
		return nil, nil, nil, err
	}
	grades, err := svc.repo.QueryStudentGrades(ctx, studentID)
	if err != nil {
		return nil, nil, nil, err
	}
	return attendance, tests, grades, nil
}

// RecordGrade persists a teacher-entered grade; the percentage is derived
// from score/max_score.
func (svc *Service) RecordGrade(ctx context.Context, teacherID int, ng NewGrade) (Grade, error) {
	if _, err := svc.repo.GetStudentByID(ctx, ng.StudentID); err != nil {
		return Grade{}, err
	}
	g := Grade{
		StudentID:  ng.StudentID,
		TeacherID:  teacherID,
		Subject:    ng.Subject,
		GradeType:  ng.GradeType,
		Score:      ng.Score,
		MaxScore:   ng.MaxScore,
		Percentage: ng.Score / ng.MaxScore * 100,
		Date:       time.Now().UTC(),
		Comments:   ng.Comments,
	}
	return svc.repo.CreateGrade(ctx, g)
}

// RecordAttendance persists one attendance entry.
func (svc *Service) RecordAttendance(ctx context.Context, teacherID, studentID int, status string) (Attendance, error) {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return Attendance{}, err
	}
	return svc.repo.CreateAttendance(ctx, Attendance{
		StudentID: studentID,
		TeacherID: teacherID,
		Date:      time.Now().UTC(),
		Status:    status,
	})
}

// RecordWeeklyTest persists one weekly test score.
func (svc *Service) RecordWeeklyTest(ctx context.Context, teacherID, studentID int, score float64) (WeeklyTest, error) {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return WeeklyTest{}, err
	}
	return svc.repo.CreateWeeklyTest(ctx, WeeklyTest{
		StudentID: studentID,
		TeacherID: null.IntFrom(teacherID),
		TestDate:  time.Now().UTC(),
		Score:     score,
	})
}

// ScheduleExam creates an exam schedule for a roster of students.
func (svc *Service) ScheduleExam(ctx context.Context, teacherID int, ne NewExamSchedule) (ExamSchedule, error) {
	for _, sid := range ne.StudentIDs {
		if _, err := svc.repo.GetStudentByID(ctx, sid); err != nil {
			return ExamSchedule{}, err
		}
	}
	return svc.repo.CreateExamSchedule(ctx, ExamSchedule{
		Subject:     ne.Subject,
		ExamType:    ne.ExamType,
		ExamDate:    ne.ExamDate,
		Description: ne.Description,
		TeacherID:   teacherID,
		StudentIDs:  ne.StudentIDs,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) UpcomingExamsForStudent(ctx context.Context, studentID int) ([]ExamSchedule, error) {
	return svc.repo.QueryUpcomingExamsForStudent(ctx, studentID, time.Now().UTC())
}

func (svc *Service) UpcomingExamsForTeacher(ctx context.Context, teacherID int) ([]ExamSchedule, error) {
	return svc.repo.QueryExamsByTeacher(ctx, teacherID, time.Now().UTC())
}
