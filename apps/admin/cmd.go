package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/kazi/core"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer
	openDB func() (*sqlx.DB, error)
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the database")
	_, _ = fmt.Fprintln(cli.out, "  rollup -variant academic-health|report-history -fixture FILE [-start DATE] [-end DATE]")
	_, _ = fmt.Fprintln(cli.out, "         [-assignee ID] [-scope ID] [-template ID] [-pretty] - compute a rollup from a JSON fixture")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "rollup":
		opts, err := parseRollupFlags(args[2:], cli.out)
		if err != nil {
			return err
		}
		return cli.rollup(opts)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseRollupFlags(args []string, out io.Writer) (rollupOptions, error) {
	var opts rollupOptions
	rollupCmd := flag.NewFlagSet("rollup", flag.ContinueOnError)
	rollupCmd.SetOutput(out)
	rollupCmd.StringVar(&opts.variant, "variant", "", "academic-health or report-history")
	rollupCmd.StringVar(&opts.fixture, "fixture", "", "path to a JSON fixture of assignments, submissions, templates and people")
	rollupCmd.StringVar(&opts.start, "start", "", "first day (YYYY-MM-DD)")
	rollupCmd.StringVar(&opts.end, "end", "", "last day (YYYY-MM-DD)")
	rollupCmd.StringVar(&opts.assignee, "assignee", "", "only this assignee")
	rollupCmd.StringVar(&opts.scope, "scope", "", "only this site (academic-health) or class (report-history)")
	rollupCmd.StringVar(&opts.template, "template", "", "report template, report-history only")
	rollupCmd.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")

	if err := rollupCmd.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return rollupOptions{}, errHelp
		}
		return rollupOptions{}, err
	}
	if opts.variant == "" || opts.fixture == "" {
		rollupCmd.Usage()
		return rollupOptions{}, errHelp
	}
	return opts, nil
}
