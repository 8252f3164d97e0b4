package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/coverage"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
)

type rollupOptions struct {
	variant  string
	fixture  string
	start    string
	end      string
	assignee string
	scope    string
	template string
	pretty   bool
}

// rollup computes a rollup offline, from a fixture loaded in memory, and prints it as JSON.
func (cli *commandLine) rollup(opts rollupOptions) error {
	db, err := inmemdb.OpenFixture(opts.fixture)
	if err != nil {
		return err
	}
	repo := inmemdb.NewCoverageRepository(db)
	svc, err := coverage.NewService(cli.conf, repo, repo, cli.logger, nil)
	if err != nil {
		return errors.Wrap(err, "setting up coverage service")
	}

	q := coverage.Query{
		StartDate:  opts.start,
		EndDate:    opts.end,
		AssigneeID: opts.assignee,
		ScopeID:    opts.scope,
		TemplateID: opts.template,
	}

	var rollup coverage.Rollup
	ctx := context.Background()
	switch opts.variant {
	case coverage.VariantAcademicHealth:
		rollup, err = svc.AcademicHealth(ctx, q)
	case coverage.VariantReportHistory:
		rollup, err = svc.ReportHistory(ctx, q)
	default:
		return errors.Errorf("unknown variant %q", opts.variant)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.out)
	if opts.pretty || (cli.out == os.Stdout && isTerminalFunc(int(os.Stdout.Fd()))) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rollup)
}
