package database

import (
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers "postgres"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/kazi/core"
	appfs "github.com/trezcool/kazi/fs"
)

const migrationsDir = "migrations"

// GooseRunFunc runs a goose command against the embedded migrations.
var GooseRunFunc = goose.Run // mockable

func init() {
	goose.SetBaseFS(appfs.FS)
}

func dsn(dbName string, admin bool, conf *core.Config) string {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func driverName(conf *core.Config) (string, error) {
	switch conf.Database.Engine {
	case "", "postgres":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	default:
		return "", errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	driver, err := driverName(conf)
	if err != nil {
		return nil, err
	}
	return sqlx.Open(driver, dsn(dbName, admin, conf))
}

// Open opens the application database. The connection is not checked.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// OpenURL opens a database from a full connection URL; used by the integration tests.
func OpenURL(engine, rawURL string) (*sqlx.DB, error) {
	driver, err := driverName(&core.Config{Database: core.DatabaseConfig{Engine: engine}})
	if err != nil {
		return nil, err
	}
	return sqlx.Open(driver, rawURL)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(db *sqlx.DB, query, name string) (bool, error) {
	var found bool
	if err := db.Get(&found, query, name); err != nil {
		return false, err
	}
	return found, nil
}

// CreateIfNotExist creates the application role and database, connecting as admin.
func CreateIfNotExist(conf *core.Config) error {
	db, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	if conf.Database.User != "" {
		found, err := exists(db, "SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)", conf.Database.User)
		if err != nil {
			return errors.Wrap(err, "checking app user")
		}
		if !found {
			q := fmt.Sprintf("CREATE USER %q CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
			if _, err = db.Exec(q); err != nil {
				return errors.Wrap(err, "creating app user")
			}
		}
	}

	found, err := exists(db, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		q := fmt.Sprintf("CREATE DATABASE %q", conf.Database.Name)
		if conf.Database.User != "" {
			q += fmt.Sprintf(" OWNER %q", conf.Database.User)
		}
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// Migrate applies all pending migrations.
func Migrate(db *sqlx.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := GooseRunFunc("up", db.DB, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigrations runs any goose command (up, down, status, ...) against the embedded migrations.
func RunMigrations(db *sqlx.DB, command string, args ...string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return GooseRunFunc(command, db.DB, migrationsDir, args...)
}
