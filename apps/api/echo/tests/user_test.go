package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/user"
	testutil "github.com/edusight/edusight/tests"
)

func Test_userApi_login(t *testing.T) {
	server := setup(t)
	testutil.CreateUser(t, usrRepo, "Jane Admin", "jane@test.cd", "s3cret", []string{user.RoleAdmin}, true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "s3cret", []string{user.RoleStudent}, false)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "empty body", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "invalid email", body: `{"email":"lol","password":"s3cret"}`, wantCode: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"ghost@test.cd","password":"s3cret"}`, wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "wrong password", body: `{"email":"jane@test.cd","password":"lol"}`, wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "inactive account", body: `{"email":"ndog@test.cd","password":"s3cret"}`, wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "ok", body: `{"email":"jane@test.cd","password":"s3cret"}`, wantCode: http.StatusOK},
		{name: "email is case-insensitive", body: `{"email":"JANE@test.cd","password":"s3cret"}`, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(tt.body))
			server.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var body httpErr
				decodeBody(t, rec, &body)
				assert.Equal(t, tt.wantErr, body.Error)
			}
			if tt.wantCode == http.StatusOK {
				var body struct {
					Token string `json:"token"`
				}
				decodeBody(t, rec, &body)
				assert.NotEmpty(t, body.Token)
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	server := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Jane Admin", "jane@test.cd", "s3cret", []string{user.RoleAdmin}, true)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, string(marshallObj(t, errMissingToken)), rec.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", getToken(t, usr))
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body user.User
		decodeBody(t, rec, &body)
		assert.Equal(t, usr.ID, body.ID)
		assert.Equal(t, usr.Email, body.Email)
	})
}

func Test_userApi_register(t *testing.T) {
	server := setup(t)
	admin := testutil.CreateUser(t, usrRepo, "Jane Admin", "jane@test.cd", "s3cret", []string{user.RoleAdmin}, true)
	student, _ := testutil.CreateStudent(t, usrRepo, acaRepo, "Joe", "Student", "joe@test.cd", "s3cret")

	body := `{"name":"New Teacher","email":"teach@test.cd","password":"s3cret","roles":["teacher:"]}`

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, student), []byte(body))
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"permission denied"}`, rec.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), []byte(body))
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var created user.User
		decodeBody(t, rec, &created)
		assert.True(t, created.IsTeacher())
		assert.True(t, created.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), []byte(body))
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
