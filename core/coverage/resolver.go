package coverage

// Resolution is the set of assignments applicable on each planned day.
type Resolution struct {
	ByDay map[Day][]Assignment
	// Assignees lists every distinct assignee of the filter-passing assignments, in first-seen order.
	Assignees []string
}

// AppliesOn reports whether the assignment is active on d.
func (a Assignment) AppliesOn(d Day) bool {
	if !a.Active {
		return false
	}
	if a.StartDate != "" && d < a.StartDate {
		return false
	}
	if a.EndDate != "" && d > a.EndDate {
		return false
	}
	return true
}

// inScope reports whether the assignment passes the request filters.
// Unscoped assignments pass any scope filter.
func (a Assignment) inScope(filter Filter) bool {
	if filter.AssigneeID != "" && a.AssigneeID != filter.AssigneeID {
		return false
	}
	if filter.ScopeID != "" && a.ScopeID != "" && a.ScopeID != filter.ScopeID {
		return false
	}
	return true
}

// Resolve determines, for each day in days, which assignments apply and are in scope.
// Unassigned assignments are skipped entirely.
func Resolve(assignments []Assignment, days []Day, filter Filter) Resolution {
	res := Resolution{ByDay: make(map[Day][]Assignment, len(days))}
	seen := make(map[string]struct{})

	candidates := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.AssigneeID == "" || !a.inScope(filter) {
			continue
		}
		if _, ok := seen[a.AssigneeID]; !ok {
			seen[a.AssigneeID] = struct{}{}
			res.Assignees = append(res.Assignees, a.AssigneeID)
		}
		if a.Active {
			candidates = append(candidates, a)
		}
	}

	for _, d := range days {
		var applicable []Assignment
		for _, a := range candidates {
			if a.AppliesOn(d) {
				applicable = append(applicable, a)
			}
		}
		res.ByDay[d] = applicable
	}
	return res
}
