package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DB interface {
		DBExecutor

		PingContext(ctx context.Context) error
		Close() error
	}
)
