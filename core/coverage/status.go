package coverage

import "strings"

// CoverageClass is what the aggregator counts, independent of the status vocabulary.
type CoverageClass int

const (
	NotFiled CoverageClass = iota
	Filed
	FiledAndApproved
)

func (c CoverageClass) String() string {
	switch c {
	case Filed:
		return "filed"
	case FiledAndApproved:
		return "filed-and-approved"
	default:
		return "not-filed"
	}
}

// Daily report statuses.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusReopened  = "REOPENED"
	StatusVerified  = "VERIFIED"
	StatusWaived    = "WAIVED"
)

// Periodic report statuses.
const (
	PeriodicPending   = "pending"
	PeriodicSubmitted = "submitted"
	PeriodicVerified  = "verified"
	PeriodicWaived    = "waived"
)

// Vocabulary is a named status enumeration mapped onto coverage classes.
type Vocabulary struct {
	Name    string
	Default string
	fold    func(string) string
	classes map[string]CoverageClass
}

var (
	DailyVocabulary = Vocabulary{
		Name:    "daily",
		Default: StatusDraft,
		fold:    strings.ToUpper,
		classes: map[string]CoverageClass{
			StatusDraft:     NotFiled,
			StatusReopened:  NotFiled,
			StatusSubmitted: Filed,
			StatusApproved:  FiledAndApproved,
			StatusVerified:  FiledAndApproved,
			StatusWaived:    FiledAndApproved,
		},
	}

	PeriodicVocabulary = Vocabulary{
		Name:    "periodic",
		Default: PeriodicPending,
		fold:    strings.ToLower,
		classes: map[string]CoverageClass{
			PeriodicPending:   NotFiled,
			PeriodicSubmitted: Filed,
			PeriodicVerified:  FiledAndApproved,
			PeriodicWaived:    FiledAndApproved,
		},
	}
)

// Classify normalizes a raw status. Unrecognized values come back unchanged with known == false
// and are never counted as filed.
func (v Vocabulary) Classify(raw string) (status string, class CoverageClass, known bool) {
	if strings.TrimSpace(raw) == "" {
		return v.Default, v.classes[v.Default], true
	}
	folded := strings.TrimSpace(raw)
	if v.fold != nil {
		folded = v.fold(folded)
	}
	if class, ok := v.classes[folded]; ok {
		return folded, class, true
	}
	return raw, NotFiled, false
}
