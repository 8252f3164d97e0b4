package coverage

import (
	"math"
	"sort"
	"strings"
)

// Variant describes one call site of the engine: its status vocabulary and which signals it raises.
type Variant struct {
	Name        string
	Kind        string
	Vocabulary  Vocabulary
	TallyFields []TallyField
	Flags       []Flag
	Headcount   bool
	Lessons     bool
}

// Free-text list fields carried by daily reports.
const (
	FieldDefaulters          = "defaulters"
	FieldLessonSubjects      = "lessonSubjects"
	FieldCheckModes          = "checkModes"
	FieldTransitionQualities = "transitionQualities"
)

const (
	VariantAcademicHealth = "academic-health"
	VariantReportHistory  = "report-history"
)

// AcademicHealth is the daily staff report variant, scoped by site.
var AcademicHealth = Variant{
	Name:       VariantAcademicHealth,
	Kind:       KindDailyReport,
	Vocabulary: DailyVocabulary,
	TallyFields: []TallyField{
		{Name: FieldDefaulters, PerDay: true},
		{Name: FieldLessonSubjects, PerDay: true},
		{Name: FieldCheckModes},
		{Name: FieldTransitionQualities},
	},
	Flags:     AllFlags(),
	Headcount: true,
	Lessons:   true,
}

// ReportHistory builds the periodic report variant, scoped by class, from its template.
func ReportHistory(tmpl ReportTemplate) (Variant, error) {
	flags, err := LookupFlags(tmpl.Flags...)
	if err != nil {
		return Variant{}, newError(MissingConfiguration, "report template %q is misconfigured: %v", tmpl.ID, err)
	}
	fields := make([]TallyField, 0, len(tmpl.TallyFields))
	seen := make(map[string]struct{}, len(tmpl.TallyFields))
	for _, name := range tmpl.TallyFields {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; name == "" || dup {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, TallyField{Name: name, PerDay: true})
	}
	return Variant{
		Name:        VariantReportHistory,
		Kind:        KindPeriodicReport,
		Vocabulary:  PeriodicVocabulary,
		TallyFields: fields,
		Flags:       flags,
		Headcount:   tmpl.Headcount,
	}, nil
}

// Input is everything the collaborators fetched for one run, fully materialized.
type Input struct {
	Range        DateRange
	Filter       Filter
	Assignments  []Assignment
	Submissions  []Submission
	DisplayNames map[string]string
}

// Engine computes coverage rollups. It holds configuration only and is safe for concurrent use.
type Engine struct {
	limits    RangeLimits
	tokenizer *Tokenizer
}

func NewEngine(limits RangeLimits, tokenizer *Tokenizer) *Engine {
	return &Engine{limits: limits, tokenizer: tokenizer}
}

// Plan validates a raw date pair against the engine limits.
func (e *Engine) Plan(rawStart, rawEnd string, today Day) (DateRange, error) {
	return PlanRange(rawStart, rawEnd, today, e.limits)
}

// Compute runs the whole pipeline on already-fetched data. It is deterministic.
func (e *Engine) Compute(v Variant, in Input) Rollup {
	subs := relevantSubmissions(in.Submissions, in.Range, in.Filter)
	res := Resolve(in.Assignments, in.Range.Days, in.Filter)
	idx := NewSubmissionIndex(subs)

	agg := newAggregation(in.Range.Days, res.Assignees, in.DisplayNames)
	agg.run(v.Vocabulary, res, idx)

	rollup := Rollup{
		Variant:     v.Name,
		Range:       in.Range,
		PerDay:      agg.perDay(),
		PerAssignee: agg.perAssignee(),
		DataQuality: DataQuality{
			DuplicateScopedKeys: idx.DuplicateScopedKeys,
			FallbackCollisions:  idx.FallbackCollisions,
		},
	}
	rollup.Totals = totalsOf(rollup.PerDay)

	statuses := FrequencyTable{}
	tally := NewTally(e.tokenizer, v.TallyFields)
	var hc average
	for _, f := range v.Flags {
		rollup.FlagCounts.track(f.Name)
	}

	for _, sub := range subs {
		status, _, known := v.Vocabulary.Classify(sub.Status)
		statuses.Add(status)
		if !known {
			rollup.DataQuality.UnrecognizedStatuses++
		}
		for _, f := range v.Flags {
			if f.Check(sub) {
				rollup.FlagCounts.inc(f.Name)
			}
		}
		if v.Headcount {
			hc.add(sub.Headcount)
		}
		tally.Add(sub)
		if v.Lessons {
			tally.AddLessons(sub)
		}
	}

	rollup.StatusDistribution = statuses.Sorted()
	rollup.FreeTextDistributions = tally.Distributions()
	rollup.LessonsByDay = tally.LessonsByDay()
	if v.Headcount {
		rollup.Headcount = hc.headcount()
	}
	return rollup
}

// relevantSubmissions keeps the submissions inside the range and the request filters, in input order.
func relevantSubmissions(subs []Submission, dr DateRange, filter Filter) []Submission {
	out := make([]Submission, 0, len(subs))
	for _, s := range subs {
		if s.AssigneeID == "" || !dr.Contains(s.Day) {
			continue
		}
		if filter.AssigneeID != "" && s.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.ScopeID != "" && s.ScopeID != "" && s.ScopeID != filter.ScopeID {
			continue
		}
		out = append(out, s)
	}
	return out
}

type aggregation struct {
	days      []Day
	byDay     map[Day]*DayBucket
	assignees map[string]*AssigneeBucket
}

func newAggregation(days []Day, assignees []string, names map[string]string) *aggregation {
	agg := &aggregation{
		days:      days,
		byDay:     make(map[Day]*DayBucket, len(days)),
		assignees: make(map[string]*AssigneeBucket, len(assignees)),
	}
	for _, d := range days {
		agg.byDay[d] = &DayBucket{Date: d}
	}
	for _, id := range assignees {
		name := strings.TrimSpace(names[id])
		if name == "" {
			name = id
		}
		agg.assignees[id] = &AssigneeBucket{AssigneeID: id, DisplayName: name}
	}
	return agg
}

// run joins the applicable assignments of each day to their submissions. Single-threaded.
func (agg *aggregation) run(vocab Vocabulary, res Resolution, idx *SubmissionIndex) {
	for _, d := range agg.days {
		db := agg.byDay[d]
		for _, a := range res.ByDay[d] {
			ab := agg.assignees[a.AssigneeID]
			db.Expected++
			ab.Expected++

			sub, ok := idx.Lookup(d, a.AssigneeID, a.ScopeID)
			if !ok {
				db.Missing++
				ab.Missing++
				continue
			}
			db.Found++
			ab.Found++

			_, class, _ := vocab.Classify(sub.Status)
			if class == Filed || class == FiledAndApproved {
				db.Submitted++
				ab.Submitted++
			}
			if class == FiledAndApproved {
				db.Approved++
				ab.Approved++
			}

			if ab.LatestSubmissionDate == nil || d > *ab.LatestSubmissionDate {
				day := d
				ab.LatestSubmissionDate = &day
			}
		}
	}
}

func (agg *aggregation) perDay() []DayBucket {
	out := make([]DayBucket, 0, len(agg.days))
	for _, d := range agg.days {
		out = append(out, *agg.byDay[d])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (agg *aggregation) perAssignee() []AssigneeBucket {
	out := make([]AssigneeBucket, 0, len(agg.assignees))
	for _, ab := range agg.assignees {
		out = append(out, *ab)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].AssigneeID < out[j].AssigneeID
	})
	return out
}

func totalsOf(days []DayBucket) Totals {
	var t Totals
	for _, d := range days {
		t.Expected += d.Expected
		t.Found += d.Found
		t.Submitted += d.Submitted
		t.Approved += d.Approved
		t.Missing += d.Missing
	}
	t.CompletionRate = CompletionRate(t.Submitted, t.Expected)
	return t
}

// CompletionRate is round(submitted/expected*100), or 0 when nothing was expected.
func CompletionRate(submitted, expected int) int {
	if expected <= 0 {
		return 0
	}
	return int(math.Round(float64(submitted) / float64(expected) * 100))
}
