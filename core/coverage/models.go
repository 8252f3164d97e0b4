package coverage

// Report kinds stored by the collaborators.
const (
	KindDailyReport    = "daily"
	KindPeriodicReport = "periodic"
)

type (
	// Assignment is an obligation for a person to file a report, optionally scoped and time-bounded.
	// Empty AssigneeID, ScopeID, StartDate and EndDate mean "absent".
	Assignment struct {
		ID          string `json:"id"`
		Kind        string `json:"kind"`
		TemplateID  string `json:"templateId,omitempty"`
		AssigneeID  string `json:"assigneeId,omitempty"`
		ScopeID     string `json:"scopeId,omitempty"`
		TargetLabel string `json:"targetLabel,omitempty"`
		StartDate   Day    `json:"startDate,omitempty"`
		EndDate     Day    `json:"endDate,omitempty"`
		Active      bool   `json:"active"`
	}

	// Lesson is one lesson record carried by a daily report.
	Lesson struct {
		Period  string `json:"period"`
		Subject string `json:"subject"`
		Teacher string `json:"teacher"`
	}

	// Submission is an actual filed report covering one Day.
	Submission struct {
		ID         string `json:"id"`
		Kind       string `json:"kind"`
		TemplateID string `json:"templateId,omitempty"`
		AssigneeID string `json:"assigneeId"`
		ScopeID    string `json:"scopeId,omitempty"`
		Day        Day    `json:"day"`
		Status     string `json:"status,omitempty"`

		// quality fields; nil / empty means the field was not filled in
		AttendanceConfirmed *bool    `json:"attendanceConfirmed,omitempty"`
		TransitionQuality   string   `json:"transitionQuality,omitempty"`
		ModerationDone      *bool    `json:"moderationDone,omitempty"`
		CoSignerPresent     *bool    `json:"coSignerPresent,omitempty"`
		SignatureName       string   `json:"signatureName,omitempty"`
		SignatureArtifact   string   `json:"signatureArtifact,omitempty"`
		SelfClosed          *bool    `json:"selfClosed,omitempty"`
		Headcount           *float64 `json:"headcount,omitempty"`

		// Lists holds delimited free-text list fields, keyed by field name.
		Lists   map[string]string `json:"lists,omitempty"`
		Lessons []Lesson          `json:"lessons,omitempty"`
	}

	// ReportTemplate configures the periodic report variant.
	ReportTemplate struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		TallyFields []string `json:"tallyFields"`
		Flags       []string `json:"flags"`
		Headcount   bool     `json:"headcount"`
	}

	// Filter narrows the obligations and submissions considered. Empty fields do not filter.
	Filter struct {
		AssigneeID string
		ScopeID    string
		TemplateID string
	}

	// Query is what a caller asks the Service for.
	Query struct {
		StartDate  string
		EndDate    string
		AssigneeID string
		ScopeID    string
		TemplateID string
	}
)

// DayBucket is the per-day coverage rollup.
type DayBucket struct {
	Date      Day `json:"date"`
	Expected  int `json:"expected"`
	Found     int `json:"found"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Missing   int `json:"missing"`
}

// AssigneeBucket is the per-assignee coverage rollup.
type AssigneeBucket struct {
	AssigneeID           string `json:"assigneeId"`
	DisplayName          string `json:"displayName"`
	Expected             int    `json:"expected"`
	Found                int    `json:"found"`
	Submitted            int    `json:"submitted"`
	Approved             int    `json:"approved"`
	Missing              int    `json:"missing"`
	LatestSubmissionDate *Day   `json:"latestSubmissionDate"`
}

type (
	// Totals sums the per-day buckets of a rollup.
	Totals struct {
		Expected       int `json:"expected"`
		Found          int `json:"found"`
		Submitted      int `json:"submitted"`
		Approved       int `json:"approved"`
		Missing        int `json:"missing"`
		CompletionRate int `json:"completionRate"`
	}

	// FlagCounts holds the running totals of each quality flag. Flags not tracked by a variant stay nil.
	FlagCounts struct {
		AttendanceNotConfirmed *int `json:"attendanceNotConfirmed,omitempty"`
		TransitionNotSmooth    *int `json:"transitionNotSmooth,omitempty"`
		ModerationNotDone      *int `json:"moderationNotDone,omitempty"`
		CoSignerNotPresent     *int `json:"coSignerNotPresent,omitempty"`
		SignatureMissing       *int `json:"signatureMissing,omitempty"`
		DayNotSelfClosed       *int `json:"dayNotSelfClosed,omitempty"`
	}

	// Headcount is the rounded mean of the finite headcounts reported.
	Headcount struct {
		Average int `json:"average"`
		Samples int `json:"samples"`
	}

	// DayCounts is a token frequency table for one day.
	DayCounts struct {
		Date   Day          `json:"date"`
		Counts []TokenCount `json:"counts"`
	}

	// FieldDistribution holds the tallied tokens of one list field.
	FieldDistribution struct {
		Overall []TokenCount `json:"overall"`
		PerDay  []DayCounts  `json:"perDay,omitempty"`
	}

	// DayLessons lists the lessons reported on one day, in report order.
	DayLessons struct {
		Date    Day      `json:"date"`
		Lessons []Lesson `json:"lessons"`
	}

	// DataQuality counts the submissions shadowed by duplicates or carrying an unknown status.
	DataQuality struct {
		DuplicateScopedKeys  int `json:"duplicateScopedKeys"`
		FallbackCollisions   int `json:"fallbackCollisions"`
		UnrecognizedStatuses int `json:"unrecognizedStatuses"`
	}

	// Rollup is the complete response of one engine run.
	Rollup struct {
		Variant               string                       `json:"variant"`
		Range                 DateRange                    `json:"range"`
		PerDay                []DayBucket                  `json:"perDay"`
		PerAssignee           []AssigneeBucket             `json:"perAssignee"`
		Totals                Totals                       `json:"totals"`
		StatusDistribution    []TokenCount                 `json:"statusDistribution"`
		FlagCounts            FlagCounts                   `json:"flagCounts"`
		Headcount             *Headcount                   `json:"headcount,omitempty"`
		FreeTextDistributions map[string]FieldDistribution `json:"freeTextDistributions"`
		LessonsByDay          []DayLessons                 `json:"lessonsByDay,omitempty"`
		DataQuality           DataQuality                  `json:"dataQuality"`
	}
)
