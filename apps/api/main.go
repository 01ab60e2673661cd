package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/shulehq/shule/apps/api/echo"
	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/attendance"
	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/feedback"
	"github.com/shulehq/shule/core/grade"
	"github.com/shulehq/shule/core/payment"
	"github.com/shulehq/shule/core/school"
	"github.com/shulehq/shule/core/user"
	emailsvc "github.com/shulehq/shule/services/email"
	logsvc "github.com/shulehq/shule/services/logger"
	"github.com/shulehq/shule/storage/database"
	sqliterepos "github.com/shulehq/shule/storage/database/sqlite"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("Failed to close DB", err)
		}
	}()
	if err = database.Migrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	userRepo := sqliterepos.NewUserRepository(db)
	schoolRepo := sqliterepos.NewSchoolRepository(db)
	enrollRepo := sqliterepos.NewEnrollmentRepository(db)
	attRepo := sqliterepos.NewAttendanceRepository(db)
	gradeRepo := sqliterepos.NewGradeRepository(db)
	payRepo := sqliterepos.NewPaymentRepository(db)
	fbRepo := sqliterepos.NewFeedbackRepository(db)

	usrSvc := user.NewService(db, userRepo, schoolRepo, enrollRepo, attRepo, mailSvc, conf)
	schoolSvc := school.NewService(db, schoolRepo)
	enrollSvc := enrollment.NewService(enrollRepo, userRepo, schoolRepo)
	attSvc := attendance.NewService(db, attRepo)
	gradeSvc := grade.NewService(gradeRepo)
	paySvc := payment.NewService(db, payRepo, userRepo)
	fbSvc := feedback.NewService(fbRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators(core.Validate, core.Translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		DB:            db,
		UserSvc:       usrSvc,
		SchoolSvc:     schoolSvc,
		EnrollmentSvc: enrollSvc,
		AttendanceSvc: attSvc,
		GradeSvc:      gradeSvc,
		PaymentSvc:    paySvc,
		FeedbackSvc:   fbSvc,
	})

	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.ServerAddress()))
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

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
