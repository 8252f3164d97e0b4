package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
	logsvc "github.com/trezcool/kazi/services/logger"
	metricsvc "github.com/trezcool/kazi/services/metrics"
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	CoverageSvc coverage.Service
	Validate    *validator.Validate
	Translator  ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// SetUpDB creates the database if needed, opens it and applies the migrations.
func SetUpDB(conf *core.Config) (*sqlx.DB, error) {
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

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	db, err := SetUpDB(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newCoverageRepository(db core.DB) (coverage.Repository, coverage.Directory) {
	repo := sqlxrepos.NewCoverageRepository(db)
	return repo, repo
}

func newObserver(obs *metricsvc.PrometheusObserver) coverage.Observer {
	return obs
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		CoverageSvc: p.CoverageSvc,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newCoverageRepository))
	must(c.Provide(metricsvc.NewPrometheusObserver))
	must(c.Provide(newObserver))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(coverage.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
