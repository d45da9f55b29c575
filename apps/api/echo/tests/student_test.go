package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/academics"
	testutil "github.com/edusight/edusight/tests"
)

func Test_studentApi_dashboard(t *testing.T) {
	server := setup(t)
	ctx := context.Background()

	usr, student := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")
	_, teacher := testutil.CreateTeacher(t, usrRepo, acaRepo, "Ann", "Teacher", "ann@test.cd", "s3cret", "Math")

	now := time.Now().UTC()
	for i, status := range []string{academics.StatusPresent, academics.StatusPresent, academics.StatusAbsent, academics.StatusPresent} {
		_, err := acaRepo.CreateAttendance(ctx, academics.Attendance{
			StudentID: student.ID,
			TeacherID: teacher.ID,
			Date:      now.AddDate(0, 0, -i),
			Status:    status,
		})
		require.NoError(t, err)
	}
	for _, pct := range []float64{80, 90} {
		_, err := acaRepo.CreateGrade(ctx, academics.Grade{
			StudentID:  student.ID,
			TeacherID:  teacher.ID,
			Subject:    "Math",
			GradeType:  academics.GradeQuiz,
			Score:      pct,
			MaxScore:   100,
			Percentage: pct,
			Date:       now,
		})
		require.NoError(t, err)
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/student/dashboard")
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/dashboard", getToken(t, usr))
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Student         academics.Student  `json:"student"`
			AttendanceRate  float64            `json:"attendance_rate"`
			GradeAverage    float64            `json:"grade_average"`
			SubjectAverages map[string]float64 `json:"subject_averages"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, student.ID, body.Student.ID)
		assert.InDelta(t, 75.0, body.AttendanceRate, 0.01)
		assert.InDelta(t, 85.0, body.GradeAverage, 0.01)
		assert.InDelta(t, 85.0, body.SubjectAverages["Math"], 0.01)
	})
}

func Test_studentApi_portalForbiddenForTeachers(t *testing.T) {
	server := setup(t)
	usr, _ := testutil.CreateTeacher(t, usrRepo, acaRepo, "Ann", "Teacher", "ann@test.cd", "s3cret", "Math")

	req, rec := newAuthRequest(http.MethodGet, "/v1/student/dashboard", getToken(t, usr))
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"permission denied"}`, rec.Body.String())
}

func Test_studentApi_exams(t *testing.T) {
	server := setup(t)
	ctx := context.Background()

	usr, student := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")
	_, teacher := testutil.CreateTeacher(t, usrRepo, acaRepo, "Ann", "Teacher", "ann@test.cd", "s3cret", "Math")

	now := time.Now().UTC()
	_, err := acaRepo.CreateExamSchedule(ctx, academics.ExamSchedule{
		Subject:    "Math",
		ExamType:   academics.GradeMidterm,
		ExamDate:   now.AddDate(0, 0, 3),
		TeacherID:  teacher.ID,
		StudentIDs: []int{student.ID},
		CreatedAt:  now,
	})
	require.NoError(t, err)
	// already past, must not show up
	_, err = acaRepo.CreateExamSchedule(ctx, academics.ExamSchedule{
		Subject:    "Math",
		ExamType:   academics.GradeQuiz,
		ExamDate:   now.AddDate(0, 0, -3),
		TeacherID:  teacher.ID,
		StudentIDs: []int{student.ID},
		CreatedAt:  now,
	})
	require.NoError(t, err)

	req, rec := newAuthRequest(http.MethodGet, "/v1/student/exams", getToken(t, usr))
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var exams []academics.ExamSchedule
	decodeBody(t, rec, &exams)
	require.Len(t, exams, 1)
	assert.Equal(t, academics.GradeMidterm, exams[0].ExamType)
}
