package testutil

import (
	"io"
	"log"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
	logsvc "github.com/trezcool/kazi/services/logger"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
)

func Bool(b bool) *bool { return &b }

func Float(f float64) *float64 { return &f }

// NewLogger returns a logger that discards everything.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), core.NewTestConfig())
}

// NewValidator returns a validator set up the way the API sets it up.
func NewValidator() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

// PrepareDB returns an in-memory database loaded with f.
func PrepareDB(t *testing.T, f inmemdb.Fixture) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.Load(f)
	return db
}

// NewCoverageService wires a coverage.Service on top of db.
func NewCoverageService(t *testing.T, conf *core.Config, db *inmemdb.DB, observer coverage.Observer) coverage.Service {
	t.Helper()
	repo := inmemdb.NewCoverageRepository(db)
	svc, err := coverage.NewService(conf, repo, repo, NewLogger(), observer)
	if err != nil {
		t.Fatalf("NewCoverageService() failed: %v", err)
	}
	return svc
}

// DailyAssignment returns an active, unbounded daily report obligation.
func DailyAssignment(id, assignee, site string) coverage.Assignment {
	return coverage.Assignment{ID: id, Kind: coverage.KindDailyReport, AssigneeID: assignee, ScopeID: site, Active: true}
}

// DailySubmission returns a daily report filed on day with status.
func DailySubmission(id, assignee, site string, day coverage.Day, status string) coverage.Submission {
	return coverage.Submission{ID: id, Kind: coverage.KindDailyReport, AssigneeID: assignee, ScopeID: site, Day: day, Status: status}
}

// PeriodicAssignment returns an active, unbounded periodic report obligation on template.
func PeriodicAssignment(id, template, assignee, class string) coverage.Assignment {
	return coverage.Assignment{
		ID: id, Kind: coverage.KindPeriodicReport, TemplateID: template,
		AssigneeID: assignee, ScopeID: class, Active: true,
	}
}

// PeriodicSubmission returns a periodic report filed on day with status.
func PeriodicSubmission(id, template, assignee, class string, day coverage.Day, status string) coverage.Submission {
	return coverage.Submission{
		ID: id, Kind: coverage.KindPeriodicReport, TemplateID: template,
		AssigneeID: assignee, ScopeID: class, Day: day, Status: status,
	}
}
