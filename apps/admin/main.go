package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	logsvc "github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// start CLI
	cli := commandLine{
		conf:   conf,
		logger: logger,
		out:    os.Stdout,
		openDB: func() (*sqlx.DB, error) {
			db, err := database.Open(conf)
			if err != nil {
				return nil, errors.Wrap(err, "opening database")
			}
			if err = db.Ping(); err != nil {
				_ = db.Close()
				return nil, errors.Wrap(err, "pinging database")
			}
			return db, nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
