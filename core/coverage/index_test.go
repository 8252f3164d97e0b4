package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionIndex(t *testing.T) {
	const day = Day("2024-03-04")
	idx := NewSubmissionIndex([]Submission{
		{ID: "r1", AssigneeID: "u1", ScopeID: "s1", Day: day},
		{ID: "r2", AssigneeID: "u1", ScopeID: "s1", Day: day}, // same scoped key
		{ID: "r3", AssigneeID: "u1", ScopeID: "s2", Day: day}, // same fallback key
		{ID: "r4", AssigneeID: "u2", Day: day},                // unscoped
	})

	assert.Equal(t, 1, idx.DuplicateScopedKeys)
	assert.Equal(t, 2, idx.FallbackCollisions)

	tests := []struct {
		name     string
		assignee string
		scope    string
		day      Day
		wantID   string
	}{
		{name: "scoped first wins", assignee: "u1", scope: "s1", day: day, wantID: "r1"},
		{name: "other scope", assignee: "u1", scope: "s2", day: day, wantID: "r3"},
		{name: "fallback on scope mismatch", assignee: "u1", scope: "s9", day: day, wantID: "r1"},
		{name: "unscoped obligation", assignee: "u1", day: day, wantID: "r1"},
		{name: "unscoped submission", assignee: "u2", scope: "s1", day: day, wantID: "r4"},
		{name: "other day", assignee: "u1", scope: "s1", day: "2024-03-05"},
		{name: "unknown assignee", assignee: "u9", day: day},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub, ok := idx.Lookup(tc.day, tc.assignee, tc.scope)
			if tc.wantID == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.wantID, sub.ID)
		})
	}
}
