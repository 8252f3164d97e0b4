package main

import (
	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/kazi/apps/api/di/dig"
	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	metricsvc "github.com/trezcool/kazi/services/metrics"
)

func startWithDig() {
	c := dig_container.New(core.NewConfig)

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		observer *metricsvc.PrometheusObserver,
		server *echoapi.Server,
	) {
		serve(conf, apiLogger, dbLoggerParam.Logger, db, observer, server)
	}))
}
