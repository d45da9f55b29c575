package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	echoapi "github.com/edusight/edusight/apps/api/echo"
	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/career"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/prediction"
	"github.com/edusight/edusight/core/suggestion"
	"github.com/edusight/edusight/core/user"
	cachesvc "github.com/edusight/edusight/services/cache"
	dummymail "github.com/edusight/edusight/services/email/dummy"
	logsvc "github.com/edusight/edusight/services/logger"
	dummydb "github.com/edusight/edusight/storage/database/dummy"
)

var (
	conf *core.Config

	usrRepo    user.Repository
	acaRepo    academics.Repository
	careerRepo career.Repository
	notifRepo  notification.Repository

	errMissingToken = httpErr{Error: "user not authenticated"}
)

func setup(t *testing.T) echoapi.Server {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo = dummydb.NewUserRepository(db)
	acaRepo = dummydb.NewAcademicsRepository(db)
	careerRepo = dummydb.NewCareerRepository(db)
	notifRepo = dummydb.NewNotificationRepository(db)
	predRepo := dummydb.NewPredictionRepository(db)
	suggRepo := dummydb.NewSuggestionRepository(db)

	conf = &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Edusight",
		SecretKey:        "test-secret-key",
		DefaultFromEmail: mail.Address{Name: "Edusight", Address: "noreply@localhost"},

		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)

	mailSvc := dummymail.NewService(conf)
	cache := cachesvc.NewInMemCache()

	usrSvc := user.NewService(usrRepo)
	academicsSvc := academics.NewService(acaRepo)
	notifSvc := notification.NewService(notifRepo, mailSvc, logger)
	predictionSvc := prediction.NewService(predRepo, prediction.NewEngine(nil), academicsSvc, notifSvc, logger)
	careerSvc := career.NewService(careerRepo, cache, career.NewRecommender(nil, logger), academicsSvc, notifSvc, logger)
	suggestionSvc := suggestion.NewService(suggRepo, academicsSvc, notifSvc, logger)

	validate, translator := core.NewValidator()

	return echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			AcademicsSvc:    academicsSvc,
			PredictionSvc:   predictionSvc,
			CareerSvc:       careerSvc,
			SuggestionSvc:   suggestionSvc,
			NotificationSvc: notifSvc,
			Validate:        validate,
			Translator:      translator,
			DisableReqLogs:  true,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func itoa(n int) string { return strconv.Itoa(n) }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decodeBody() failed: %v (body: %s)", err, rec.Body.String())
	}
}
