package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	metricsvc "github.com/trezcool/kazi/services/metrics"
)

func main() {
	di := flag.String("di", "dig", "dependency wiring: dig | manual")
	flag.Parse()

	switch *di {
	case "dig":
		startWithDig()
	case "manual":
		startManual()
	default:
		fmt.Fprintf(os.Stderr, "unknown -di value %q\n", *di)
		os.Exit(2)
	}
}

// serve runs the debug and API servers until shutdown.
func serve(
	conf *core.Config,
	logger core.Logger,
	dbLogger core.Logger,
	db *sqlx.DB,
	observer *metricsvc.PrometheusObserver,
	server *echoapi.Server,
) {
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer func() {
		if err := db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics of the coverage service.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", observer.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shut down and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
