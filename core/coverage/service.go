package coverage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/kazi/core"
)

type (
	// Repository is the persistence collaborator holding obligations, submissions and templates.
	Repository interface {
		ListAssignments(ctx context.Context, kind string, filter Filter) ([]Assignment, error)
		// ListSubmissions returns the submissions covering days within dr.
		ListSubmissions(ctx context.Context, kind string, dr DateRange, filter Filter) ([]Submission, error)
		// GetReportTemplate returns ErrTemplateNotFound when no template has this id.
		GetReportTemplate(ctx context.Context, id string) (ReportTemplate, error)
	}

	// Directory resolves people ids to display names. Unknown ids are simply absent from the result.
	Directory interface {
		LookupDisplayNames(ctx context.Context, ids []string) (map[string]string, error)
	}

	// Observer receives run metrics.
	Observer interface {
		ObserveRollup(variant, outcome string, elapsed time.Duration)
		ObserveDiscarded(variant, key string, n int)
	}

	Service interface {
		AcademicHealth(ctx context.Context, q Query) (Rollup, error)
		ReportHistory(ctx context.Context, q Query) (Rollup, error)
	}

	service struct {
		engine          *Engine
		repo            Repository
		dir             Directory
		logger          core.Logger
		observer        Observer
		loc             *time.Location
		defaultTemplate string
	}
)

var (
	_ Service = (*service)(nil) // interface compliance check

	nowFunc = time.Now // mockable
)

func NewService(conf *core.Config, repo Repository, dir Directory, logger core.Logger, observer Observer) (Service, error) {
	tokenizer, err := NewTokenizer(conf.Coverage.TokenPattern)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(conf.Coverage.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading coverage timezone %q", conf.Coverage.Timezone)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &service{
		engine: NewEngine(RangeLimits{
			MaxDays:     conf.Coverage.MaxRangeDays,
			DefaultDays: conf.Coverage.DefaultRangeDays,
		}, tokenizer),
		repo:            repo,
		dir:             dir,
		logger:          logger,
		observer:        observer,
		loc:             loc,
		defaultTemplate: conf.Coverage.DefaultTemplate,
	}, nil
}

func (svc *service) today() Day {
	return DayOf(nowFunc().In(svc.loc))
}

func (svc *service) AcademicHealth(ctx context.Context, q Query) (Rollup, error) {
	started := time.Now()
	rollup, err := svc.academicHealth(ctx, q)
	svc.observe(VariantAcademicHealth, started, err)
	return rollup, err
}

func (svc *service) academicHealth(ctx context.Context, q Query) (Rollup, error) {
	dr, err := svc.engine.Plan(q.StartDate, q.EndDate, svc.today())
	if err != nil {
		return Rollup{}, err
	}
	return svc.compute(ctx, AcademicHealth, dr, Filter{AssigneeID: q.AssigneeID, ScopeID: q.ScopeID})
}

func (svc *service) ReportHistory(ctx context.Context, q Query) (Rollup, error) {
	started := time.Now()
	rollup, err := svc.reportHistory(ctx, q)
	svc.observe(VariantReportHistory, started, err)
	return rollup, err
}

func (svc *service) reportHistory(ctx context.Context, q Query) (Rollup, error) {
	dr, err := svc.engine.Plan(q.StartDate, q.EndDate, svc.today())
	if err != nil {
		return Rollup{}, err
	}

	templateID := q.TemplateID
	if templateID == "" {
		templateID = svc.defaultTemplate
	}
	tmpl, err := svc.repo.GetReportTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return Rollup{}, newError(MissingConfiguration, "report template %q not found", templateID)
		}
		return Rollup{}, collaboratorFailure(err, "getting report template")
	}
	variant, err := ReportHistory(tmpl)
	if err != nil {
		return Rollup{}, err
	}
	return svc.compute(ctx, variant, dr, Filter{AssigneeID: q.AssigneeID, ScopeID: q.ScopeID, TemplateID: tmpl.ID})
}

// compute fetches everything the engine needs, then runs it. Nothing is formatted if a fetch fails.
func (svc *service) compute(ctx context.Context, v Variant, dr DateRange, filter Filter) (Rollup, error) {
	in := Input{Range: dr, Filter: filter}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assignments, err := svc.repo.ListAssignments(gctx, v.Kind, filter)
		if err != nil {
			return collaboratorFailure(err, "listing assignments")
		}
		in.Assignments = assignments
		return nil
	})
	g.Go(func() error {
		submissions, err := svc.repo.ListSubmissions(gctx, v.Kind, dr, filter)
		if err != nil {
			return collaboratorFailure(err, "listing submissions")
		}
		in.Submissions = submissions
		return nil
	})
	if err := g.Wait(); err != nil {
		return Rollup{}, err
	}

	names, err := svc.dir.LookupDisplayNames(ctx, assigneeIDs(in.Assignments))
	if err != nil {
		return Rollup{}, collaboratorFailure(err, "looking up display names")
	}
	in.DisplayNames = names

	rollup := svc.engine.Compute(v, in)
	svc.reportDataQuality(v.Name, rollup.DataQuality)
	return rollup, nil
}

func (svc *service) reportDataQuality(variant string, dq DataQuality) {
	if dq.DuplicateScopedKeys > 0 {
		svc.observer.ObserveDiscarded(variant, "scoped", dq.DuplicateScopedKeys)
		svc.logger.Warn(fmt.Sprintf("%s: discarded %d submissions sharing a (day, assignee, scope) key", variant, dq.DuplicateScopedKeys))
	}
	if dq.FallbackCollisions > 0 {
		svc.observer.ObserveDiscarded(variant, "fallback", dq.FallbackCollisions)
		svc.logger.Warn(fmt.Sprintf("%s: %d submissions shadowed on the (day, assignee) fallback key", variant, dq.FallbackCollisions))
	}
	if dq.UnrecognizedStatuses > 0 {
		svc.logger.Warn(fmt.Sprintf("%s: %d submissions with unrecognized status", variant, dq.UnrecognizedStatuses))
	}
}

func (svc *service) observe(variant string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(CodeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	svc.observer.ObserveRollup(variant, outcome, time.Since(started))
}

// assigneeIDs returns the distinct, sorted assignee ids of assignments.
func assigneeIDs(assignments []Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.AssigneeID == "" {
			continue
		}
		if _, ok := seen[a.AssigneeID]; !ok {
			seen[a.AssigneeID] = struct{}{}
			ids = append(ids, a.AssigneeID)
		}
	}
	sort.Strings(ids)
	return ids
}

type nopObserver struct{}

func (nopObserver) ObserveRollup(string, string, time.Duration) {}
func (nopObserver) ObserveDiscarded(string, string, int)        {}
