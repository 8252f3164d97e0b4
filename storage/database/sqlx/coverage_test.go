package sqlxrepos

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kazi/core/coverage"
	"github.com/trezcool/kazi/storage/database"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	rawURL := os.Getenv("KAZI_TEST_DATABASE_URL")
	if rawURL == "" {
		t.Skip("KAZI_TEST_DATABASE_URL not set")
	}
	engine := os.Getenv("KAZI_TEST_DATABASE_ENGINE")
	db, err := database.OpenURL(engine, rawURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestListText(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "Alice, Bob", want: "Alice, Bob"},
		{name: "array", in: []interface{}{"Alice", "Bob"}, want: "Alice,Bob"},
		{name: "number", in: float64(3), want: "3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, listText(tc.in))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	query, args, err := applyFilter(
		psql.Select("id").From("report_assignments"),
		coverage.Filter{AssigneeID: "u1", ScopeID: "s1", TemplateID: "t1"},
	).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM report_assignments WHERE assignee_id = $1 AND (scope_id = $2 OR scope_id IS NULL) AND template_id = $3", query)
	assert.Equal(t, []interface{}{"u1", "s1", "t1"}, args)
}

func TestCoverageRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewCoverageRepository(db)

	scope := uuid.NewString()
	person := uuid.NewString()
	tmpl := uuid.NewString()

	db.MustExec(`INSERT INTO people (id, display_name) VALUES ($1, 'Ama Mensah')`, person)
	db.MustExec(`INSERT INTO report_templates (id, name, tally_fields, flags, headcount) VALUES ($1, 'weekly', '["defaulters"]', '["signatureMissing"]', true)`, tmpl)
	db.MustExec(`INSERT INTO report_assignments (id, kind, template_id, assignee_id, scope_id, start_date, active)
		VALUES ($1, 'periodic', $2, $3, $4, '2024-03-01', true)`, uuid.NewString(), tmpl, person, scope)
	db.MustExec(`INSERT INTO report_submissions (id, kind, template_id, assignee_id, scope_id, day, status, headcount, lists, lessons)
		VALUES ($1, 'periodic', $2, $3, $4, '2024-03-04', 'verified', 21.5, '{"defaulters": "Kofi, Esi"}', '[{"period": "1", "subject": "Maths", "teacher": "Ama"}]')`,
		uuid.NewString(), tmpl, person, scope)
	db.MustExec(`INSERT INTO report_submissions (id, kind, template_id, assignee_id, scope_id, day, status)
		VALUES ($1, 'periodic', $2, $3, $4, '2024-04-04', 'verified')`, uuid.NewString(), tmpl, person, scope)

	filter := coverage.Filter{ScopeID: scope, TemplateID: tmpl}

	t.Run("assignments", func(t *testing.T) {
		assignments, err := repo.ListAssignments(ctx, coverage.KindPeriodicReport, filter)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, person, assignments[0].AssigneeID)
		assert.Equal(t, coverage.Day("2024-03-01"), assignments[0].StartDate)
		assert.Equal(t, coverage.Day(""), assignments[0].EndDate)
		assert.True(t, assignments[0].Active)
	})

	t.Run("submissions within range", func(t *testing.T) {
		dr, err := coverage.PlanRange("2024-03-01", "2024-03-07", "2024-03-07", coverage.RangeLimits{MaxDays: 31, DefaultDays: 7})
		require.NoError(t, err)
		subs, err := repo.ListSubmissions(ctx, coverage.KindPeriodicReport, dr, filter)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		sub := subs[0]
		assert.Equal(t, coverage.Day("2024-03-04"), sub.Day)
		assert.Equal(t, "verified", sub.Status)
		require.NotNil(t, sub.Headcount)
		assert.Equal(t, 21.5, *sub.Headcount)
		assert.Nil(t, sub.SelfClosed)
		assert.Equal(t, "Kofi, Esi", sub.Lists["defaulters"])
		assert.Equal(t, []coverage.Lesson{{Period: "1", Subject: "Maths", Teacher: "Ama"}}, sub.Lessons)
	})

	t.Run("template", func(t *testing.T) {
		got, err := repo.GetReportTemplate(ctx, tmpl)
		require.NoError(t, err)
		assert.Equal(t, []string{"defaulters"}, got.TallyFields)
		assert.Equal(t, []string{"signatureMissing"}, got.Flags)
		assert.True(t, got.Headcount)

		_, err = repo.GetReportTemplate(ctx, uuid.NewString())
		assert.ErrorIs(t, err, coverage.ErrTemplateNotFound)
	})

	t.Run("display names", func(t *testing.T) {
		names, err := repo.LookupDisplayNames(ctx, []string{person, uuid.NewString()})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{person: "Ama Mensah"}, names)

		names, err = repo.LookupDisplayNames(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
