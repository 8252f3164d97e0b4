package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    Day
		wantErr bool
	}{
		{in: "2024-03-01", want: "2024-03-01"},
		{in: " 2024-03-01 ", want: "2024-03-01"},
		{in: "2024-03-01T23:30:00Z", want: "2024-03-01"},
		{in: "2024-03-01T01:30:00+02:00", want: "2024-03-01"},
		{in: "01/03/2024", wantErr: true},
		{in: "2024-02-30", wantErr: true},
		{in: "9999-12-31", want: "9999-12-31"},
		{in: "0000-12-31", wantErr: true},
		{in: "10000-01-01", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDay(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDay_AddDays(t *testing.T) {
	tests := []struct {
		day     Day
		n       int
		want    Day
		wantErr bool
	}{
		{day: "2024-02-28", n: 1, want: "2024-02-29"},
		{day: "2024-02-29", n: 1, want: "2024-03-01"},
		{day: "2024-01-01", n: -1, want: "2023-12-31"},
		{day: "2024-03-30", n: 1, want: "2024-03-31"}, // DST change in most of Europe
		{day: "9999-12-30", n: 1, want: "9999-12-31"},
		{day: "9999-12-31", n: 1, wantErr: true},
		{day: "0001-01-01", n: -1, wantErr: true},
		{day: "not-a-day", n: 1, wantErr: true},
		{day: "", n: 0, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(string(tc.day), func(t *testing.T) {
			got, err := tc.day.AddDays(tc.n)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlanRange(t *testing.T) {
	const today = Day("2024-03-07")
	limits := RangeLimits{MaxDays: 31, DefaultDays: 7}

	tests := []struct {
		name       string
		start, end string
		wantStart  Day
		wantEnd    Day
		wantCount  int
		wantCode   ErrorCode
	}{
		{name: "explicit", start: "2024-03-01", end: "2024-03-07", wantStart: "2024-03-01", wantEnd: "2024-03-07", wantCount: 7},
		{name: "single day", start: "2024-03-01", end: "2024-03-01", wantStart: "2024-03-01", wantEnd: "2024-03-01", wantCount: 1},
		{name: "reversed", start: "2024-03-07", end: "2024-03-01", wantStart: "2024-03-01", wantEnd: "2024-03-07", wantCount: 7},
		{name: "timestamps", start: "2024-03-01T10:00:00Z", end: "2024-03-02T23:59:59Z", wantStart: "2024-03-01", wantEnd: "2024-03-02", wantCount: 2},
		{name: "defaults", wantStart: "2024-03-01", wantEnd: today, wantCount: 7},
		{name: "start only", start: "2024-03-05", wantStart: "2024-03-05", wantEnd: today, wantCount: 3},
		{name: "start only after today", start: "2024-03-09", wantStart: today, wantEnd: "2024-03-09", wantCount: 3},
		{name: "end only", end: "2024-02-29", wantStart: "2024-02-23", wantEnd: "2024-02-29", wantCount: 7},
		{name: "leap day", start: "2024-02-28", end: "2024-03-01", wantStart: "2024-02-28", wantEnd: "2024-03-01", wantCount: 3},
		{name: "at the limit", start: "2024-01-01", end: "2024-01-31", wantStart: "2024-01-01", wantEnd: "2024-01-31", wantCount: 31},
		{name: "too large", start: "2024-01-01", end: "2024-02-01", wantCode: RangeTooLarge},
		{name: "too large reversed", start: "2024-03-01", end: "2024-01-01", wantCode: RangeTooLarge},
		{name: "invalid start", start: "yesterday", end: "2024-03-01", wantCode: InvalidRange},
		{name: "invalid end", start: "2024-03-01", end: "2024-13-01", wantCode: InvalidRange},
		{name: "last days of year 9999", start: "9999-12-30", end: "9999-12-31", wantStart: "9999-12-30", wantEnd: "9999-12-31", wantCount: 2},
		{name: "year 9999 reversed", start: "9999-12-31", end: "9999-12-25", wantStart: "9999-12-25", wantEnd: "9999-12-31", wantCount: 7},
		{name: "first days of year 1", start: "0001-01-01", end: "0001-01-02", wantStart: "0001-01-01", wantEnd: "0001-01-02", wantCount: 2},
		{name: "default window before year 1", end: "0001-01-03", wantCode: InvalidRange},
		{name: "five digit year", start: "9999-12-31", end: "10000-01-01", wantCode: InvalidRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dr, err := PlanRange(tc.start, tc.end, today, limits)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, dr.Start)
			assert.Equal(t, tc.wantEnd, dr.End)
			assert.Equal(t, tc.wantCount, dr.DayCount)
			require.Len(t, dr.Days, tc.wantCount)
			assert.Equal(t, dr.Start, dr.Days[0])
			assert.Equal(t, dr.End, dr.Days[len(dr.Days)-1])
			for i := 1; i < len(dr.Days); i++ {
				next, err := dr.Days[i-1].AddDays(1)
				require.NoError(t, err)
				assert.Equal(t, next, dr.Days[i])
			}
		})
	}
}

func TestPlanRange_NoLimit(t *testing.T) {
	dr, err := PlanRange("2023-01-01", "2023-12-31", "2024-01-01", RangeLimits{})
	require.NoError(t, err)
	assert.Equal(t, 365, dr.DayCount)
}

func TestDateRange_Contains(t *testing.T) {
	dr := DateRange{Start: "2024-03-01", End: "2024-03-07"}
	assert.True(t, dr.Contains("2024-03-01"))
	assert.True(t, dr.Contains("2024-03-07"))
	assert.False(t, dr.Contains("2024-02-29"))
	assert.False(t, dr.Contains("2024-03-08"))
}

func TestPlanRange_Bounded(t *testing.T) {
	done := make(chan DateRange, 1)
	go func() {
		dr, _ := PlanRange("9999-12-30", "9999-12-31", "2024-03-07", RangeLimits{MaxDays: 31})
		done <- dr
	}()

	select {
	case dr := <-done:
		assert.Equal(t, []Day{"9999-12-30", "9999-12-31"}, dr.Days)
	case <-time.After(5 * time.Second):
		t.Fatal("PlanRange did not return")
	}
}
