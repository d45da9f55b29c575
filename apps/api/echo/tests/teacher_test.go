package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
	testutil "github.com/edusight/edusight/tests"
)

func Test_teacherApi_recordGrade(t *testing.T) {
	server := setup(t)
	ctx := context.Background()

	studentUsr, student := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")
	teacherUsr, _ := testutil.CreateTeacher(t, usrRepo, acaRepo, "Ann", "Teacher", "ann@test.cd", "s3cret", "Math")

	body := `{"student_id":` + itoa(student.ID) + `,"subject":"Math","grade_type":"quiz","score":17,"max_score":20}`

	t.Run("students cannot grade", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/teacher/grades", getToken(t, studentUsr), []byte(body))
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown student is a 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/teacher/grades", getToken(t, teacherUsr),
			[]byte(`{"student_id":999,"subject":"Math","grade_type":"quiz","score":17,"max_score":20}`))
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/teacher/grades", getToken(t, teacherUsr), []byte(body))
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var grade academics.Grade
		decodeBody(t, rec, &grade)
		assert.Equal(t, student.ID, grade.StudentID)
		assert.InDelta(t, 85.0, grade.Percentage, 0.01)

		// the student is told about the new grade
		notifs, err := notifRepo.QueryStudentNotifications(ctx, student.ID)
		require.NoError(t, err)
		require.NotEmpty(t, notifs)

		var found bool
		for _, n := range notifs {
			if n.Title == "New Grade Posted" {
				found = true
				assert.Equal(t, notification.TypePerformance, n.Type)
				assert.Equal(t, notification.PriorityMedium, n.Priority)
			}
		}
		assert.True(t, found, "expected a grade notification, got %+v", notifs)
	})
}

func Test_teacherApi_scheduleExam(t *testing.T) {
	server := setup(t)

	_, student := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")
	teacherUsr, _ := testutil.CreateTeacher(t, usrRepo, acaRepo, "Ann", "Teacher", "ann@test.cd", "s3cret", "Math")
	token := getToken(t, teacherUsr)

	body := `{"subject":"Math","exam_type":"midterm","exam_date":"2031-05-01T09:00:00Z","student_ids":[` + itoa(student.ID) + `]}`
	req, rec := newAuthRequest(http.MethodPost, "/v1/teacher/exams", token, []byte(body))
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var exam academics.ExamSchedule
	decodeBody(t, rec, &exam)
	assert.Equal(t, []int{student.ID}, exam.StudentIDs)

	// shows up in the teacher's upcoming list
	req, rec = newAuthRequest(http.MethodGet, "/v1/teacher/exams", token)
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var exams []academics.ExamSchedule
	decodeBody(t, rec, &exams)
	require.Len(t, exams, 1)
	assert.Equal(t, exam.ID, exams[0].ID)
}
