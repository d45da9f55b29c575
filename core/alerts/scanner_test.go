package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/suggestion"
	dummydb "github.com/edusight/edusight/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type testEnv struct {
	scanner       *Scanner
	academicsRepo academics.Repository
	suggestRepo   suggestion.Repository
	notifier      *notification.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	academicsRepo := dummydb.NewAcademicsRepository(db)
	suggestRepo := dummydb.NewSuggestionRepository(db)

	academicsSvc := academics.NewService(academicsRepo)
	notifier := notification.NewService(dummydb.NewNotificationRepository(db), nil, nopLogger{})
	suggestSvc := suggestion.NewService(suggestRepo, academicsSvc, notifier, nopLogger{})

	return &testEnv{
		scanner:       NewScanner(academicsSvc, suggestSvc, notifier, nopLogger{}),
		academicsRepo: academicsRepo,
		suggestRepo:   suggestRepo,
		notifier:      notifier,
	}
}

func (env *testEnv) addStudent(t *testing.T, name string) academics.Student {
	t.Helper()
	s, err := env.academicsRepo.CreateStudent(context.Background(), academics.Student{
		FirstName: name,
		LastName:  "Test",
		Email:     name + "@school.test",
		IsActive:  true,
	})
	require.NoError(t, err)
	return s
}

func (env *testEnv) studentNotifications(t *testing.T, studentID int, notifType string) []notification.Notification {
	t.Helper()
	all, _, err := env.notifier.ListForStudent(context.Background(), studentID)
	require.NoError(t, err)
	var out []notification.Notification
	for _, n := range all {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

func TestScanner_AttendanceAlert(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "amina")

	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		status := academics.StatusAbsent
		if i < 2 {
			status = academics.StatusPresent
		}
		_, err := env.academicsRepo.CreateAttendance(ctx, academics.Attendance{
			StudentID: student.ID,
			Date:      now.Add(-time.Duration(i+1) * 24 * time.Hour),
			Status:    status,
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	alerts := env.studentNotifications(t, student.ID, notification.TypeAttendance)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Critical Attendance Alert", alerts[0].Title)
	assert.Equal(t, notification.PriorityHigh, alerts[0].Priority)

	// a second tick within the dedup window stays quiet
	require.NoError(t, env.scanner.Run(ctx, "tick-2"))
	assert.Len(t, env.studentNotifications(t, student.ID, notification.TypeAttendance), 1)
}

func TestScanner_TestDeclineAlert(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "brian")

	now := time.Now().UTC()
	for i, score := range []float64{80, 70, 60} { // oldest to newest
		_, err := env.academicsRepo.CreateWeeklyTest(ctx, academics.WeeklyTest{
			StudentID: student.ID,
			TestDate:  now.Add(-time.Duration(3-i) * 24 * time.Hour),
			Score:     score,
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	alerts := env.studentNotifications(t, student.ID, notification.TypeTest)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Test Scores Declining", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "80.0")
	assert.Contains(t, alerts[0].Message, "60.0")
}

func TestScanner_NoAlertOnStableScores(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "carol")

	now := time.Now().UTC()
	for i, score := range []float64{60, 80, 70} {
		_, err := env.academicsRepo.CreateWeeklyTest(ctx, academics.WeeklyTest{
			StudentID: student.ID,
			TestDate:  now.Add(-time.Duration(3-i) * 24 * time.Hour),
			Score:     score,
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))
	assert.Empty(t, env.studentNotifications(t, student.ID, notification.TypeTest))
}

func TestScanner_GradeDeclineAlert(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "dina")

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := env.academicsRepo.CreateGrade(ctx, academics.Grade{
			StudentID:  student.ID,
			Subject:    "Math",
			GradeType:  academics.GradeQuiz,
			Percentage: 85,
			Date:       now.Add(-time.Duration(35+i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := env.academicsRepo.CreateGrade(ctx, academics.Grade{
			StudentID:  student.ID,
			Subject:    "Math",
			GradeType:  academics.GradeQuiz,
			Percentage: 70,
			Date:       now.Add(-time.Duration(i+1) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	alerts := env.studentNotifications(t, student.ID, notification.TypePerformance)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Performance Decline Detected", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "70.0")
	assert.Contains(t, alerts[0].Message, "85.0")
}

func TestScanner_ExamReminder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "eli")

	exam, err := env.academicsRepo.CreateExamSchedule(ctx, academics.ExamSchedule{
		Subject:    "Physics",
		ExamType:   academics.GradeMidterm,
		ExamDate:   time.Now().UTC().Add(12 * time.Hour),
		TeacherID:  1,
		StudentIDs: []int{student.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	alerts := env.studentNotifications(t, student.ID, notification.TypeTest)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Exam Tomorrow: Physics", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "Midterm")

	// flag flipped, second tick sends nothing
	due, err := env.academicsRepo.QueryExamsDueReminder(ctx, time.Now().UTC(), time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, env.scanner.Run(ctx, "tick-2"))
	assert.Len(t, env.studentNotifications(t, student.ID, notification.TypeTest), 1)
	_ = exam
}

func TestScanner_PendingSuggestionReminder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "farah")

	_, err := env.suggestRepo.CreateSuggestion(ctx, suggestion.CourseSuggestion{
		StudentID:  student.ID,
		TeacherID:  null.IntFrom(1),
		CourseName: "Algebra Bootcamp",
		Priority:   suggestion.PriorityHigh,
		CreatedAt:  time.Now().UTC().Add(-4 * 24 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	alerts := env.studentNotifications(t, student.ID, notification.TypeCareer)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Pending Course Suggestion", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "Algebra Bootcamp")

	require.NoError(t, env.scanner.Run(ctx, "tick-2"))
	assert.Len(t, env.studentNotifications(t, student.ID, notification.TypeCareer), 1)
}

func TestScanner_RunsSuggestionPolicy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.addStudent(t, "gitta")

	// failing grades, fine attendance
	now := time.Now().UTC()
	_, err := env.academicsRepo.CreateGrade(ctx, academics.Grade{
		StudentID:  student.ID,
		Subject:    "History",
		GradeType:  academics.GradeQuiz,
		Percentage: 35,
		Date:       now,
	})
	require.NoError(t, err)
	_, err = env.academicsRepo.CreateAttendance(ctx, academics.Attendance{
		StudentID: student.ID,
		Date:      now,
		Status:    academics.StatusPresent,
	})
	require.NoError(t, err)

	require.NoError(t, env.scanner.Run(ctx, "tick-1"))

	created, err := env.suggestRepo.QueryStudentSuggestions(ctx, student.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(created))
	for _, s := range created {
		names = append(names, s.CourseName)
	}
	assert.Contains(t, names, "Foundation Strengthening Course")
	assert.Contains(t, names, "History Remedial Program")

	// idempotent across ticks
	require.NoError(t, env.scanner.Run(ctx, "tick-2"))
	again, err := env.suggestRepo.QueryStudentSuggestions(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, again, len(created))
}