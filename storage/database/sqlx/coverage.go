package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coverage"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	assignmentRow struct {
		ID          string      `db:"id"`
		Kind        string      `db:"kind"`
		TemplateID  null.String `db:"template_id"`
		AssigneeID  null.String `db:"assignee_id"`
		ScopeID     null.String `db:"scope_id"`
		TargetLabel null.String `db:"target_label"`
		StartDate   null.Time   `db:"start_date"`
		EndDate     null.Time   `db:"end_date"`
		Active      bool        `db:"active"`
	}

	submissionRow struct {
		ID                  string            `db:"id"`
		Kind                string            `db:"kind"`
		TemplateID          null.String       `db:"template_id"`
		AssigneeID          null.String       `db:"assignee_id"`
		ScopeID             null.String       `db:"scope_id"`
		Day                 null.Time         `db:"day"`
		Status              null.String       `db:"status"`
		AttendanceConfirmed null.Bool         `db:"attendance_confirmed"`
		TransitionQuality   null.String       `db:"transition_quality"`
		ModerationDone      null.Bool         `db:"moderation_done"`
		CoSignerPresent     null.Bool         `db:"co_signer_present"`
		SignatureName       null.String       `db:"signature_name"`
		SignatureArtifact   null.String       `db:"signature_artifact"`
		SelfClosed          null.Bool         `db:"self_closed"`
		Headcount           null.Float64      `db:"headcount"`
		Lists               datatypes.JSONMap `db:"lists"`
		Lessons             datatypes.JSON    `db:"lessons"`
	}

	templateRow struct {
		ID          string         `db:"id"`
		Name        string         `db:"name"`
		TallyFields datatypes.JSON `db:"tally_fields"`
		Flags       datatypes.JSON `db:"flags"`
		Headcount   bool           `db:"headcount"`
	}

	personRow struct {
		ID          string      `db:"id"`
		DisplayName null.String `db:"display_name"`
	}
)

type coverageRepository struct {
	db core.DBExecutor
}

var (
	_ coverage.Repository = (*coverageRepository)(nil) // interface compliance check
	_ coverage.Directory  = (*coverageRepository)(nil) // interface compliance check
)

// NewCoverageRepository returns a Postgres backed coverage.Repository, which is also a coverage.Directory.
func NewCoverageRepository(db core.DBExecutor) *coverageRepository {
	return &coverageRepository{db: db}
}

func applyFilter(b sq.SelectBuilder, filter coverage.Filter) sq.SelectBuilder {
	if filter.AssigneeID != "" {
		b = b.Where(sq.Eq{"assignee_id": filter.AssigneeID})
	}
	if filter.ScopeID != "" {
		// unscoped rows apply to every scope
		b = b.Where(sq.Or{sq.Eq{"scope_id": filter.ScopeID}, sq.Eq{"scope_id": nil}})
	}
	if filter.TemplateID != "" {
		b = b.Where(sq.Eq{"template_id": filter.TemplateID})
	}
	return b
}

func (repo *coverageRepository) ListAssignments(ctx context.Context, kind string, filter coverage.Filter) ([]coverage.Assignment, error) {
	query, args, err := applyFilter(
		psql.Select("id", "kind", "template_id", "assignee_id", "scope_id", "target_label", "start_date", "end_date", "active").
			From("report_assignments").
			Where(sq.Eq{"kind": kind}),
		filter,
	).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building assignments query")
	}

	var rows []assignmentRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting assignments")
	}

	assignments := make([]coverage.Assignment, 0, len(rows))
	for _, r := range rows {
		assignments = append(assignments, coverage.Assignment{
			ID:          r.ID,
			Kind:        r.Kind,
			TemplateID:  r.TemplateID.String,
			AssigneeID:  strings.TrimSpace(r.AssigneeID.String),
			ScopeID:     r.ScopeID.String,
			TargetLabel: r.TargetLabel.String,
			StartDate:   dayOf(r.StartDate),
			EndDate:     dayOf(r.EndDate),
			Active:      r.Active,
		})
	}
	return assignments, nil
}

func (repo *coverageRepository) ListSubmissions(ctx context.Context, kind string, dr coverage.DateRange, filter coverage.Filter) ([]coverage.Submission, error) {
	query, args, err := applyFilter(
		psql.Select(
			"id", "kind", "template_id", "assignee_id", "scope_id", "day", "status",
			"attendance_confirmed", "transition_quality", "moderation_done", "co_signer_present",
			"signature_name", "signature_artifact", "self_closed", "headcount",
			"COALESCE(lists, '{}'::jsonb) AS lists", "COALESCE(lessons, '[]'::jsonb) AS lessons",
		).
			From("report_submissions").
			Where(sq.Eq{"kind": kind}).
			Where(sq.GtOrEq{"day": dr.Start.String()}).
			Where(sq.LtOrEq{"day": dr.End.String()}),
		filter,
	).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building submissions query")
	}

	var rows []submissionRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting submissions")
	}

	subs := make([]coverage.Submission, 0, len(rows))
	for _, r := range rows {
		sub, err := r.toSubmission()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding submission %s", r.ID)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r submissionRow) toSubmission() (coverage.Submission, error) {
	sub := coverage.Submission{
		ID:                  r.ID,
		Kind:                r.Kind,
		TemplateID:          r.TemplateID.String,
		AssigneeID:          strings.TrimSpace(r.AssigneeID.String),
		ScopeID:             r.ScopeID.String,
		Day:                 dayOf(r.Day),
		Status:              r.Status.String,
		AttendanceConfirmed: r.AttendanceConfirmed.Ptr(),
		TransitionQuality:   r.TransitionQuality.String,
		ModerationDone:      r.ModerationDone.Ptr(),
		CoSignerPresent:     r.CoSignerPresent.Ptr(),
		SignatureName:       r.SignatureName.String,
		SignatureArtifact:   r.SignatureArtifact.String,
		SelfClosed:          r.SelfClosed.Ptr(),
		Headcount:           r.Headcount.Ptr(),
	}
	if len(r.Lists) > 0 {
		sub.Lists = make(map[string]string, len(r.Lists))
		for k, v := range r.Lists {
			sub.Lists[k] = listText(v)
		}
	}
	if len(r.Lessons) > 0 {
		if err := json.Unmarshal(r.Lessons, &sub.Lessons); err != nil {
			return coverage.Submission{}, errors.Wrap(err, "decoding lessons")
		}
	}
	return sub, nil
}

// listText flattens a stored list value; JSON arrays are joined with commas.
func listText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, listText(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func (repo *coverageRepository) GetReportTemplate(ctx context.Context, id string) (coverage.ReportTemplate, error) {
	query, args, err := psql.Select("id", "name", "tally_fields", "flags", "headcount").
		From("report_templates").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return coverage.ReportTemplate{}, errors.Wrap(err, "building template query")
	}

	var row templateRow
	if err = sqlx.GetContext(ctx, repo.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return coverage.ReportTemplate{}, coverage.ErrTemplateNotFound
		}
		return coverage.ReportTemplate{}, errors.Wrap(err, "selecting template")
	}

	tmpl := coverage.ReportTemplate{ID: row.ID, Name: row.Name, Headcount: row.Headcount}
	if err = decodeStrings(row.TallyFields, &tmpl.TallyFields); err != nil {
		return coverage.ReportTemplate{}, errors.Wrap(err, "decoding template tally fields")
	}
	if err = decodeStrings(row.Flags, &tmpl.Flags); err != nil {
		return coverage.ReportTemplate{}, errors.Wrap(err, "decoding template flags")
	}
	return tmpl, nil
}

func decodeStrings(raw datatypes.JSON, dest *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (repo *coverageRepository) LookupDisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In("SELECT id, display_name FROM people WHERE id IN (?)", ids)
	if err != nil {
		return nil, errors.Wrap(err, "building people query")
	}
	var rows []personRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting people")
	}
	for _, r := range rows {
		if name := strings.TrimSpace(r.DisplayName.String); name != "" {
			names[r.ID] = name
		}
	}
	return names, nil
}

func dayOf(t null.Time) coverage.Day {
	if !t.Valid {
		return ""
	}
	return coverage.DayOf(t.Time.UTC())
}
