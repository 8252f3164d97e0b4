package coverage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func TestFlags(t *testing.T) {
	clean := Submission{
		AttendanceConfirmed: boolPtr(true),
		TransitionQuality:   " Smooth ",
		ModerationDone:      boolPtr(true),
		CoSignerPresent:     boolPtr(true),
		SignatureName:       "Ama Mensah",
		SignatureArtifact:   "signatures/ama.png",
		SelfClosed:          boolPtr(true),
	}

	tests := []struct {
		flag  string
		dirty func(s *Submission)
	}{
		{flag: FlagAttendanceNotConfirmed, dirty: func(s *Submission) { s.AttendanceConfirmed = boolPtr(false) }},
		{flag: FlagTransitionNotSmooth, dirty: func(s *Submission) { s.TransitionQuality = "rough" }},
		{flag: FlagModerationNotDone, dirty: func(s *Submission) { s.ModerationDone = nil }},
		{flag: FlagCoSignerNotPresent, dirty: func(s *Submission) { s.CoSignerPresent = boolPtr(false) }},
		{flag: FlagSignatureMissing, dirty: func(s *Submission) { s.SignatureArtifact = " " }},
		{flag: FlagDayNotSelfClosed, dirty: func(s *Submission) { s.SelfClosed = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.flag, func(t *testing.T) {
			flags, err := LookupFlags(tc.flag)
			require.NoError(t, err)
			require.Len(t, flags, 1)

			assert.False(t, flags[0].Check(clean))
			dirty := clean
			tc.dirty(&dirty)
			assert.True(t, flags[0].Check(dirty))
			assert.True(t, flags[0].Check(Submission{}), "absent fields are flagged")
		})
	}
}

func TestLookupFlags(t *testing.T) {
	assert.Len(t, AllFlags(), 6)

	_, err := LookupFlags(FlagSignatureMissing, "lateArrival")
	assert.EqualError(t, err, `unknown flag "lateArrival"`)

	flags, err := LookupFlags()
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestFlagCounts(t *testing.T) {
	var fc FlagCounts
	fc.track(FlagSignatureMissing)
	fc.inc(FlagSignatureMissing)
	fc.inc(FlagSignatureMissing)
	fc.inc(FlagDayNotSelfClosed) // untracked

	n, ok := fc.Get(FlagSignatureMissing)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = fc.Get(FlagDayNotSelfClosed)
	assert.False(t, ok)
	_, ok = fc.Get("nope")
	assert.False(t, ok)
}

func TestAverage(t *testing.T) {
	var a average
	assert.Equal(t, &Headcount{}, a.headcount())

	a.add(floatPtr(20))
	a.add(nil)
	a.add(floatPtr(math.NaN()))
	a.add(floatPtr(math.Inf(1)))
	a.add(floatPtr(25))
	assert.Equal(t, &Headcount{Average: 23, Samples: 2}, a.headcount())
}
