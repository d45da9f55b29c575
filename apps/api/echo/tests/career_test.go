package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/career"
	"github.com/edusight/edusight/core/user"
	testutil "github.com/edusight/edusight/tests"
)

func Test_careerApi_questionnaireFlow(t *testing.T) {
	server := setup(t)
	ctx := context.Background()

	adminUsr := testutil.CreateUser(t, usrRepo, "Jane Admin", "jane@test.cd", "s3cret", []string{user.RoleAdmin}, true)
	studentUsr, student := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")
	studentToken := getToken(t, studentUsr)

	// admin seeds a question and a career
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/career/questions", getToken(t, adminUsr),
		[]byte(`{"text":"Do you enjoy building software?","category":"Tech"}`))
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var question career.Question
	decodeBody(t, rec, &question)

	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/careers", getToken(t, adminUsr),
		[]byte(`{"name":"Software Engineer","description":"Builds software","category":"Tech"}`))
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("invalid category is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/careers", getToken(t, adminUsr),
			[]byte(`{"name":"Wizard","description":"Magic","category":"Occult"}`))
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("next question", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/career/questions/next", studentToken)
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Question *career.Question `json:"question"`
			Done     bool             `json:"done"`
		}
		decodeBody(t, rec, &body)
		require.NotNil(t, body.Question)
		assert.Equal(t, question.ID, body.Question.ID)
		assert.False(t, body.Done)
	})

	t.Run("answer completes the questionnaire", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/career/answers", studentToken,
			[]byte(`{"question_id":`+itoa(question.ID)+`,"score":5}`))
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Done bool `json:"done"`
		}
		decodeBody(t, rec, &body)
		assert.True(t, body.Done)
	})

	t.Run("answering twice is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/career/answers", studentToken,
			[]byte(`{"question_id":`+itoa(question.ID)+`,"score":3}`))
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("results rank the scored categories", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/career/results", studentToken)
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res career.Results
		decodeBody(t, rec, &res)
		assert.Equal(t, 1, res.Answered)
		require.NotEmpty(t, res.TopCategories)
		assert.Equal(t, "Tech", res.TopCategories[0])
		require.NotEmpty(t, res.Careers)
		assert.Equal(t, "Software Engineer", res.Careers[0].Name)
	})

	t.Run("retake wipes answers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/career/retake", studentToken)
		server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		answers, err := careerRepo.QueryStudentAnswers(ctx, student.ID)
		require.NoError(t, err)
		assert.Empty(t, answers)
	})
}
