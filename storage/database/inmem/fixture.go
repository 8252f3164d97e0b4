package inmemdb

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/coverage"
)

// Fixture is a JSON snapshot of the coverage tables, used to compute rollups offline.
type Fixture struct {
	Assignments []coverage.Assignment     `json:"assignments"`
	Submissions []coverage.Submission     `json:"submissions"`
	Templates   []coverage.ReportTemplate `json:"templates"`
	People      map[string]string         `json:"people"`
}

// Load adds the fixture rows to the database.
func (db *DB) Load(f Fixture) {
	db.AddAssignments(f.Assignments...)
	db.AddSubmissions(f.Submissions...)
	db.AddTemplates(f.Templates...)
	for id, name := range f.People {
		db.AddPerson(id, name)
	}
}

func DecodeFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, errors.Wrap(err, "decoding fixture")
	}
	return f, nil
}

// OpenFixture opens a new database loaded from the JSON fixture at path.
func OpenFixture(path string) (*DB, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening fixture")
	}
	defer func() { _ = file.Close() }()

	f, err := DecodeFixture(file)
	if err != nil {
		return nil, err
	}
	db, err := Open()
	if err != nil {
		return nil, err
	}
	db.Load(f)
	return db, nil
}
