package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/career"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/prediction"
	"github.com/edusight/edusight/core/suggestion"
	"github.com/edusight/edusight/core/user"

	echoapi "github.com/edusight/edusight/apps/api/echo"
	cachesvc "github.com/edusight/edusight/services/cache"
	dummymail "github.com/edusight/edusight/services/email/dummy"
	sendgridmail "github.com/edusight/edusight/services/email/sendgrid"
	logsvc "github.com/edusight/edusight/services/logger"
	textgensvc "github.com/edusight/edusight/services/textgen"
	"github.com/edusight/edusight/storage/database"
	sqlxrepos "github.com/edusight/edusight/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(core.Getwd())
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	sdb := sqlxrepos.New(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = dummymail.NewService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}

	cache, err := cachesvc.NewRedisCache(conf)
	if err != nil {
		logger.Warn(fmt.Sprintf("redis unavailable, using in-memory cache: %v", err))
		cache = cachesvc.NewInMemCache()
	}

	artifact, err := prediction.LoadArtifact(conf.Model.ArtifactPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading model artifact: %v", err), err)
	}
	engine := prediction.NewEngine(artifact)

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sdb))
	academicsSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(sdb))
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(sdb), mailSvc, logger)
	predictionSvc := prediction.NewService(sqlxrepos.NewPredictionRepository(sdb), engine, academicsSvc, notifSvc, logger)
	recommender := career.NewRecommender(textgensvc.NewOpenAIService(conf), logger)
	careerSvc := career.NewService(sqlxrepos.NewCareerRepository(sdb), cache, recommender, academicsSvc, notifSvc, logger)
	suggestionSvc := suggestion.NewService(sqlxrepos.NewSuggestionRepository(sdb), academicsSvc, notifSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
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
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
