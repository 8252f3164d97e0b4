package coverage

type (
	scopedKey struct {
		day      Day
		assignee string
		scope    string
	}

	assigneeDayKey struct {
		day      Day
		assignee string
	}
)

// SubmissionIndex looks submissions up by (day, assignee, scope) and, more loosely, by (day, assignee).
// The first submission indexed under a key wins; later ones are counted and dropped.
type SubmissionIndex struct {
	primary  map[scopedKey]*Submission
	fallback map[assigneeDayKey]*Submission

	DuplicateScopedKeys int
	FallbackCollisions  int
}

func NewSubmissionIndex(submissions []Submission) *SubmissionIndex {
	idx := &SubmissionIndex{
		primary:  make(map[scopedKey]*Submission, len(submissions)),
		fallback: make(map[assigneeDayKey]*Submission, len(submissions)),
	}
	for i := range submissions {
		idx.add(&submissions[i])
	}
	return idx
}

func (idx *SubmissionIndex) add(sub *Submission) {
	if sub.ScopeID != "" {
		key := scopedKey{day: sub.Day, assignee: sub.AssigneeID, scope: sub.ScopeID}
		if _, ok := idx.primary[key]; ok {
			idx.DuplicateScopedKeys++
		} else {
			idx.primary[key] = sub
		}
	}

	key := assigneeDayKey{day: sub.Day, assignee: sub.AssigneeID}
	if _, ok := idx.fallback[key]; ok {
		idx.FallbackCollisions++
		return
	}
	idx.fallback[key] = sub
}

// Lookup finds the submission for assignee on d, trying the scoped key first when scope is set.
func (idx *SubmissionIndex) Lookup(d Day, assignee, scope string) (*Submission, bool) {
	if scope != "" {
		if sub, ok := idx.primary[scopedKey{day: d, assignee: assignee, scope: scope}]; ok {
			return sub, true
		}
	}
	sub, ok := idx.fallback[assigneeDayKey{day: d, assignee: assignee}]
	return sub, ok
}
