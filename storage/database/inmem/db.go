package inmemdb

import (
	"sync"

	"github.com/trezcool/kazi/core/coverage"
)

type (
	DB struct {
		coverage *coverageTables
	}

	// coverageTables keep rows in insertion order, which is the order repositories return them in.
	coverageTables struct {
		mutex       sync.RWMutex
		assignments []coverage.Assignment
		submissions []coverage.Submission
		templates   map[string]coverage.ReportTemplate
		people      map[string]string
	}
)

func Open() (*DB, error) {
	db := &DB{
		coverage: &coverageTables{
			templates: make(map[string]coverage.ReportTemplate),
			people:    make(map[string]string),
		},
	}
	return db, nil
}

func (db *DB) AddAssignments(assignments ...coverage.Assignment) {
	db.coverage.mutex.Lock()
	defer db.coverage.mutex.Unlock()
	db.coverage.assignments = append(db.coverage.assignments, assignments...)
}

func (db *DB) AddSubmissions(submissions ...coverage.Submission) {
	db.coverage.mutex.Lock()
	defer db.coverage.mutex.Unlock()
	db.coverage.submissions = append(db.coverage.submissions, submissions...)
}

func (db *DB) AddTemplates(templates ...coverage.ReportTemplate) {
	db.coverage.mutex.Lock()
	defer db.coverage.mutex.Unlock()
	for _, tmpl := range templates {
		db.coverage.templates[tmpl.ID] = tmpl
	}
}

// AddPerson registers a display name; an existing one is replaced.
func (db *DB) AddPerson(id, displayName string) {
	db.coverage.mutex.Lock()
	defer db.coverage.mutex.Unlock()
	db.coverage.people[id] = displayName
}
