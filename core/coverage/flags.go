package coverage

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Flag is a quality predicate over a submission. A predicate returns true when the issue is present;
// a field that was never filled in counts as an issue.
type Flag struct {
	Name  string
	Check func(Submission) bool
}

const (
	FlagAttendanceNotConfirmed = "attendanceNotConfirmed"
	FlagTransitionNotSmooth    = "transitionNotSmooth"
	FlagModerationNotDone      = "moderationNotDone"
	FlagCoSignerNotPresent     = "coSignerNotPresent"
	FlagSignatureMissing       = "signatureMissing"
	FlagDayNotSelfClosed       = "dayNotSelfClosed"
)

const smoothTransition = "smooth"

func notTrue(b *bool) bool { return b == nil || !*b }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

var flagRegistry = map[string]Flag{
	FlagAttendanceNotConfirmed: {FlagAttendanceNotConfirmed, func(s Submission) bool { return notTrue(s.AttendanceConfirmed) }},
	FlagTransitionNotSmooth: {FlagTransitionNotSmooth, func(s Submission) bool {
		return !strings.EqualFold(strings.TrimSpace(s.TransitionQuality), smoothTransition)
	}},
	FlagModerationNotDone:  {FlagModerationNotDone, func(s Submission) bool { return notTrue(s.ModerationDone) }},
	FlagCoSignerNotPresent: {FlagCoSignerNotPresent, func(s Submission) bool { return notTrue(s.CoSignerPresent) }},
	FlagSignatureMissing: {FlagSignatureMissing, func(s Submission) bool {
		return blank(s.SignatureName) || blank(s.SignatureArtifact)
	}},
	FlagDayNotSelfClosed: {FlagDayNotSelfClosed, func(s Submission) bool { return notTrue(s.SelfClosed) }},
}

// AllFlags returns every known flag in a fixed order.
func AllFlags() []Flag {
	flags, _ := LookupFlags(
		FlagAttendanceNotConfirmed, FlagTransitionNotSmooth, FlagModerationNotDone,
		FlagCoSignerNotPresent, FlagSignatureMissing, FlagDayNotSelfClosed,
	)
	return flags
}

// LookupFlags resolves flag names, failing on the first unknown one.
func LookupFlags(names ...string) ([]Flag, error) {
	flags := make([]Flag, 0, len(names))
	for _, name := range names {
		f, ok := flagRegistry[strings.TrimSpace(name)]
		if !ok {
			return nil, errors.Errorf("unknown flag %q", name)
		}
		flags = append(flags, f)
	}
	return flags, nil
}

func (fc *FlagCounts) slot(name string) **int {
	switch name {
	case FlagAttendanceNotConfirmed:
		return &fc.AttendanceNotConfirmed
	case FlagTransitionNotSmooth:
		return &fc.TransitionNotSmooth
	case FlagModerationNotDone:
		return &fc.ModerationNotDone
	case FlagCoSignerNotPresent:
		return &fc.CoSignerNotPresent
	case FlagSignatureMissing:
		return &fc.SignatureMissing
	case FlagDayNotSelfClosed:
		return &fc.DayNotSelfClosed
	}
	return nil
}

// track makes the flag show up in the output even when its count stays at zero.
func (fc *FlagCounts) track(name string) {
	if p := fc.slot(name); p != nil && *p == nil {
		*p = new(int)
	}
}

// inc counts one more occurrence of a tracked flag; untracked flags are ignored.
func (fc *FlagCounts) inc(name string) {
	if p := fc.slot(name); p != nil && *p != nil {
		**p++
	}
}

// Get returns the count of a tracked flag.
func (fc FlagCounts) Get(name string) (int, bool) {
	p := fc.slot(name)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// average accumulates finite numeric samples only.
type average struct {
	sum   float64
	count int
}

func (a *average) add(v *float64) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return
	}
	a.sum += *v
	a.count++
}

func (a average) headcount() *Headcount {
	h := &Headcount{Samples: a.count}
	if a.count > 0 {
		h.Average = int(math.Round(a.sum / float64(a.count)))
	}
	return h
}
