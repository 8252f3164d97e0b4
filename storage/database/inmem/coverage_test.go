package inmemdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kazi/core/coverage"
)

const fixtureJSON = `{
	"assignments": [
		{"id": "a1", "kind": "daily", "assigneeId": "u1", "scopeId": "s1", "active": true},
		{"id": "a2", "kind": "daily", "assigneeId": "u2", "scopeId": "s2", "active": true},
		{"id": "a3", "kind": "daily", "assigneeId": "u3", "active": true},
		{"id": "a4", "kind": "periodic", "templateId": "periodic", "assigneeId": "u1", "scopeId": "c1", "active": true}
	],
	"submissions": [
		{"id": "r1", "kind": "daily", "assigneeId": "u1", "scopeId": "s1", "day": "2024-03-04", "status": "SUBMITTED"},
		{"id": "r2", "kind": "daily", "assigneeId": "u2", "scopeId": "s2", "day": "2024-03-04"},
		{"id": "r3", "kind": "daily", "assigneeId": "u1", "scopeId": "s1", "day": "2024-04-01"},
		{"id": "r4", "kind": "periodic", "templateId": "periodic", "assigneeId": "u1", "scopeId": "c1", "day": "2024-03-04"}
	],
	"templates": [
		{"id": "periodic", "name": "Periodic", "tallyFields": ["defaulters"], "flags": ["signatureMissing"], "headcount": false}
	],
	"people": {"u1": "Ama Mensah", "u2": "Kofi Boateng"}
}`

func newTestRepo(t *testing.T) *coverageRepository {
	t.Helper()
	f, err := DecodeFixture(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	db, err := Open()
	require.NoError(t, err)
	db.Load(f)
	return NewCoverageRepository(db)
}

func ids[T any](rows []T, id func(T) string) []string {
	res := make([]string, 0, len(rows))
	for _, r := range rows {
		res = append(res, id(r))
	}
	return res
}

func TestCoverageRepository_ListAssignments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	assignmentID := func(a coverage.Assignment) string { return a.ID }

	tests := []struct {
		name   string
		kind   string
		filter coverage.Filter
		want   []string
	}{
		{name: "all daily", kind: coverage.KindDailyReport, want: []string{"a1", "a2", "a3"}},
		{name: "scope keeps unscoped", kind: coverage.KindDailyReport, filter: coverage.Filter{ScopeID: "s1"}, want: []string{"a1", "a3"}},
		{name: "assignee", kind: coverage.KindDailyReport, filter: coverage.Filter{AssigneeID: "u2"}, want: []string{"a2"}},
		{name: "template", kind: coverage.KindPeriodicReport, filter: coverage.Filter{TemplateID: "periodic"}, want: []string{"a4"}},
		{name: "unknown template", kind: coverage.KindPeriodicReport, filter: coverage.Filter{TemplateID: "weekly"}, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListAssignments(ctx, tc.kind, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got, assignmentID))
		})
	}
}

func TestCoverageRepository_ListSubmissions(t *testing.T) {
	repo := newTestRepo(t)
	dr, err := coverage.PlanRange("2024-03-01", "2024-03-07", "2024-03-07", coverage.RangeLimits{MaxDays: 31})
	require.NoError(t, err)

	got, err := repo.ListSubmissions(context.Background(), coverage.KindDailyReport, dr, coverage.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids(got, func(s coverage.Submission) string { return s.ID }))
}

func TestCoverageRepository_GetReportTemplate(t *testing.T) {
	repo := newTestRepo(t)

	tmpl, err := repo.GetReportTemplate(context.Background(), "periodic")
	require.NoError(t, err)
	assert.Equal(t, []string{"defaulters"}, tmpl.TallyFields)

	_, err = repo.GetReportTemplate(context.Background(), "weekly")
	assert.ErrorIs(t, err, coverage.ErrTemplateNotFound)
}

func TestCoverageRepository_LookupDisplayNames(t *testing.T) {
	repo := newTestRepo(t)

	names, err := repo.LookupDisplayNames(context.Background(), []string{"u1", "u3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"u1": "Ama Mensah"}, names)
}

func TestCoverageRepository_CanceledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListAssignments(ctx, coverage.KindDailyReport, coverage.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenFixture(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixture.json")
		require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o600))

		db, err := OpenFixture(path)
		require.NoError(t, err)
		assert.Len(t, db.coverage.assignments, 4)
		assert.Len(t, db.coverage.submissions, 4)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := DecodeFixture(strings.NewReader(`{"users": []}`))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := OpenFixture(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
