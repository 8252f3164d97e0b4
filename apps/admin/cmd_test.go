package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
	"github.com/trezcool/kazi/storage/database"
	"github.com/trezcool/kazi/tests"
)

const fixtureJSON = `{
	"assignments": [
		{"id": "a1", "kind": "daily", "assigneeId": "u1", "scopeId": "s1", "active": true},
		{"id": "a2", "kind": "daily", "assigneeId": "u2", "scopeId": "s1", "active": true}
	],
	"submissions": [
		{"id": "r1", "kind": "daily", "assigneeId": "u1", "scopeId": "s1", "day": "2024-03-04", "status": "SUBMITTED"},
		{"id": "r2", "kind": "daily", "assigneeId": "u2", "scopeId": "s1", "day": "2024-03-04", "status": "VERIFIED"}
	],
	"templates": [],
	"people": {"u1": "Ama Mensah"}
}`

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := core.NewTestConfig()
	out := new(bytes.Buffer)
	isTerminalFunc = func(int) bool { return false }

	return &commandLine{
		conf:   conf,
		logger: testutil.NewLogger(),
		out:    out,
		openDB: func() (*sqlx.DB, error) {
			// sqlx.Open does not connect; goose is mocked below
			return database.Open(conf)
		},
	}, out
}

func writeFixture(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o600))
	return path
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func checkRunErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.ErrorIs(t, err, tt.wantErr)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "rollup: no args", args: []string{"rollup"}, wantErr: errHelp},
		{name: "rollup: no fixture", args: []string{"rollup", "-variant", "academic-health"}, wantErr: errHelp},
		{name: "rollup: help", args: []string{"rollup", "-h"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	orig := database.GooseRunFunc
	t.Cleanup(func() { database.GooseRunFunc = orig })
	database.GooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "migrate lol: \"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "migrate up-to: up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "migrate up-to: version must be a number (got 'lol')"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "migrate down-to: version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "templates", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkRunErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_migrate_openFailure(t *testing.T) {
	cli, _ := setup(t)
	cli.openDB = func() (*sqlx.DB, error) { return nil, errors.New("connection refused") }

	assert.EqualError(t, cli.run([]string{"admin", "migrate", "up"}), "connection refused")
}

func Test_commandLine_rollup(t *testing.T) {
	fixture := writeFixture(t)

	t.Run("academic health", func(t *testing.T) {
		cli, out := setup(t)
		err := cli.run([]string{"admin", "rollup", "-variant", "academic-health", "-fixture", fixture,
			"-start", "2024-03-04", "-end", "2024-03-04", "-scope", "s1"})
		require.NoError(t, err)

		var rollup coverage.Rollup
		require.NoError(t, json.Unmarshal(out.Bytes(), &rollup))
		assert.Equal(t, coverage.Totals{Expected: 2, Found: 2, Submitted: 2, Approved: 1, CompletionRate: 100}, rollup.Totals)
		require.Len(t, rollup.PerAssignee, 2)
		assert.Equal(t, "Ama Mensah", rollup.PerAssignee[0].DisplayName)
		assert.Equal(t, "u2", rollup.PerAssignee[1].DisplayName)
	})

	t.Run("pretty", func(t *testing.T) {
		cli, out := setup(t)
		err := cli.run([]string{"admin", "rollup", "-variant", "academic-health", "-fixture", fixture,
			"-start", "2024-03-04", "-end", "2024-03-04", "-pretty"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "\n  \"variant\": \"academic-health\"")
	})

	tests := []cliTest{
		{
			name:       "unknown variant",
			args:       []string{"rollup", "-variant", "weekly", "-fixture", fixture},
			wantErrStr: `unknown variant "weekly"`,
		},
		{
			name:       "missing template",
			args:       []string{"rollup", "-variant", "report-history", "-fixture", fixture, "-start", "2024-03-04", "-end", "2024-03-04"},
			wantErrStr: `report template "periodic" not found`,
		},
		{
			name:       "range too large",
			args:       []string{"rollup", "-variant", "academic-health", "-fixture", fixture, "-start", "2024-01-01", "-end", "2024-03-01"},
			wantErrStr: "date range spans 61 days; at most 31 allowed",
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup(t)
			checkRunErr(t, tt, cli.run(args))
		})
	}
}
