package coverage

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultTokenPattern splits free-text lists on commas, semicolons and newlines.
const DefaultTokenPattern = `[,;\n]`

// Tokenizer splits delimited free-text lists. The token boundary is a single regular expression.
type Tokenizer struct {
	boundary *regexp.Regexp
}

func NewTokenizer(pattern string) (*Tokenizer, error) {
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling token pattern %q", pattern)
	}
	return &Tokenizer{boundary: re}, nil
}

// Tokens returns the trimmed, non-empty tokens of s, case preserved.
func (t *Tokenizer) Tokens(s string) []string {
	parts := t.boundary.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// TokenCount is one row of an emitted FrequencyTable.
type TokenCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FrequencyTable counts occurrences of keys.
type FrequencyTable map[string]int

func (ft FrequencyTable) Add(key string) { ft[key]++ }

// Sorted emits the table by count descending, ties broken by key ascending.
func (ft FrequencyTable) Sorted() []TokenCount {
	out := make([]TokenCount, 0, len(ft))
	for k, c := range ft {
		out = append(out, TokenCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// TallyField is a configured free-text list field.
type TallyField struct {
	Name   string
	PerDay bool
}

type fieldTally struct {
	overall FrequencyTable
	perDay  map[Day]FrequencyTable
}

// Tally maintains the free-text frequency tables and per-day lesson summaries for one run.
type Tally struct {
	tokenizer *Tokenizer
	fields    []TallyField
	tables    map[string]*fieldTally
	lessons   map[Day][]Lesson
}

func NewTally(tokenizer *Tokenizer, fields []TallyField) *Tally {
	t := &Tally{
		tokenizer: tokenizer,
		fields:    make([]TallyField, 0, len(fields)),
		tables:    make(map[string]*fieldTally, len(fields)),
		lessons:   make(map[Day][]Lesson),
	}
	for _, f := range fields {
		if _, ok := t.tables[f.Name]; ok {
			continue // the first declaration of a field wins
		}
		t.fields = append(t.fields, f)
		ft := &fieldTally{overall: FrequencyTable{}}
		if f.PerDay {
			ft.perDay = make(map[Day]FrequencyTable)
		}
		t.tables[f.Name] = ft
	}
	return t
}

// Add tallies the list fields of sub under sub's own day.
func (t *Tally) Add(sub Submission) {
	for _, f := range t.fields {
		raw, ok := sub.Lists[f.Name]
		if !ok {
			continue
		}
		ft := t.tables[f.Name]
		for _, tok := range t.tokenizer.Tokens(raw) {
			ft.overall.Add(tok)
			if ft.perDay != nil {
				day, ok := ft.perDay[sub.Day]
				if !ok {
					day = FrequencyTable{}
					ft.perDay[sub.Day] = day
				}
				day.Add(tok)
			}
		}
	}
}

// AddLessons summarizes the lesson records of sub, keeping their order.
func (t *Tally) AddLessons(sub Submission) {
	for _, l := range sub.Lessons {
		t.lessons[sub.Day] = append(t.lessons[sub.Day], Lesson{
			Period:  strings.TrimSpace(l.Period),
			Subject: strings.TrimSpace(l.Subject),
			Teacher: strings.TrimSpace(l.Teacher),
		})
	}
}

// Distributions emits every configured field, even when nothing was tallied for it.
func (t *Tally) Distributions() map[string]FieldDistribution {
	out := make(map[string]FieldDistribution, len(t.tables))
	for name, ft := range t.tables {
		dist := FieldDistribution{Overall: ft.overall.Sorted()}
		if ft.perDay != nil {
			days := make([]Day, 0, len(ft.perDay))
			for d := range ft.perDay {
				days = append(days, d)
			}
			sortDays(days)
			dist.PerDay = make([]DayCounts, 0, len(days))
			for _, d := range days {
				dist.PerDay = append(dist.PerDay, DayCounts{Date: d, Counts: ft.perDay[d].Sorted()})
			}
		}
		out[name] = dist
	}
	return out
}

// LessonsByDay emits the lesson summaries ordered by day.
func (t *Tally) LessonsByDay() []DayLessons {
	if len(t.lessons) == 0 {
		return nil
	}
	days := make([]Day, 0, len(t.lessons))
	for d := range t.lessons {
		days = append(days, d)
	}
	sortDays(days)
	out := make([]DayLessons, 0, len(days))
	for _, d := range days {
		out = append(out, DayLessons{Date: d, Lessons: t.lessons[d]})
	}
	return out
}

func sortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
}
