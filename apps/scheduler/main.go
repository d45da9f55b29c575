package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/alerts"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/suggestion"
	dummymail "github.com/edusight/edusight/services/email/dummy"
	sendgridmail "github.com/edusight/edusight/services/email/sendgrid"
	logsvc "github.com/edusight/edusight/services/logger"
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
		log.New(os.Stdout, "SCHEDULER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = db.Close() }()
	sdb := sqlxrepos.New(db)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = dummymail.NewService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}

	academicsSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(sdb))
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(sdb), mailSvc, logger)
	suggestionSvc := suggestion.NewService(sqlxrepos.NewSuggestionRepository(sdb), academicsSvc, notifSvc, logger)
	scanner := alerts.NewScanner(academicsSvc, suggestionSvc, notifSvc, logger)

	// =========================================================================
	// Run

	logger.Info(fmt.Sprintf("Scheduler started : interval %s", conf.Scheduler.Interval))
	defer logger.Info("Scheduler stopped")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(conf.Scheduler.Interval)
	defer ticker.Stop()

	runTick(ctx, scanner, logger)
	for {
		select {
		case <-ticker.C:
			runTick(ctx, scanner, logger)
		case sig := <-shutdown:
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
			cancel()
			return
		}
	}
}

func runTick(ctx context.Context, scanner *alerts.Scanner, logger core.Logger) {
	tickID := uuid.NewString()
	if err := scanner.Run(ctx, tickID); err != nil {
		logger.Error(fmt.Sprintf("tick %s failed: %v", tickID, err), err)
	}
}
