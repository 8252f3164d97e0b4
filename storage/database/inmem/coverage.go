package inmemdb

import (
	"context"

	"github.com/trezcool/kazi/core/coverage"
)

type coverageRepository struct {
	db *coverageTables
}

var (
	_ coverage.Repository = (*coverageRepository)(nil) // interface compliance check
	_ coverage.Directory  = (*coverageRepository)(nil) // interface compliance check
)

// NewCoverageRepository returns an in-memory coverage.Repository, which is also a coverage.Directory.
func NewCoverageRepository(db *DB) *coverageRepository {
	return &coverageRepository{db: db.coverage}
}

func matches(filter coverage.Filter, assignee, scope, template string) bool {
	if filter.AssigneeID != "" && assignee != filter.AssigneeID {
		return false
	}
	if filter.ScopeID != "" && scope != "" && scope != filter.ScopeID {
		return false
	}
	if filter.TemplateID != "" && template != filter.TemplateID {
		return false
	}
	return true
}

func (repo *coverageRepository) ListAssignments(ctx context.Context, kind string, filter coverage.Filter) ([]coverage.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []coverage.Assignment
	for _, a := range repo.db.assignments {
		if a.Kind == kind && matches(filter, a.AssigneeID, a.ScopeID, a.TemplateID) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (repo *coverageRepository) ListSubmissions(ctx context.Context, kind string, dr coverage.DateRange, filter coverage.Filter) ([]coverage.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []coverage.Submission
	for _, s := range repo.db.submissions {
		if s.Kind == kind && dr.Contains(s.Day) && matches(filter, s.AssigneeID, s.ScopeID, s.TemplateID) {
			res = append(res, s)
		}
	}
	return res, nil
}

func (repo *coverageRepository) GetReportTemplate(ctx context.Context, id string) (coverage.ReportTemplate, error) {
	if err := ctx.Err(); err != nil {
		return coverage.ReportTemplate{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tmpl, ok := repo.db.templates[id]; ok {
		return tmpl, nil
	}
	return coverage.ReportTemplate{}, coverage.ErrTemplateNotFound
}

func (repo *coverageRepository) LookupDisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := repo.db.people[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}
