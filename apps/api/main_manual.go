package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	dig_container "github.com/trezcool/kazi/apps/api/di/dig"
	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
	logsvc "github.com/trezcool/kazi/services/logger"
	metricsvc "github.com/trezcool/kazi/services/metrics"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := dig_container.SetUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	// set up services
	observer := metricsvc.NewPrometheusObserver()
	repo := sqlxrepos.NewCoverageRepository(db)
	coverageSvc, err := coverage.NewService(conf, repo, repo, logger, observer)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up coverage service: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			CoverageSvc: coverageSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	serve(conf, logger, dbLogger, db, observer, server)
}
