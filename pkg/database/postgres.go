package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/openswoop/courselist/pkg/scrape"
)

const courseColumns = 15

// Postgres writes courses to a Postgres table in one batched insert. All
// values travel as bound parameters, never interpolated into the
// statement, so quotes in titles and instructor names are safe.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return Postgres{}, fmt.Errorf("unable to connect to database: %w", err)
	}
	return Postgres{db: db}, nil
}

func (p Postgres) SaveCourses(courses []scrape.Course) error {
	if len(courses) == 0 {
		return nil
	}

	query, args, err := buildInsert(courses)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(query, args...)
	return err
}

// buildInsert produces one multi-row INSERT with $n placeholders and the
// matching argument list. Attributes become a native text array; the
// meeting times become a JSON document keyed by day letter.
func buildInsert(courses []scrape.Course) (string, []interface{}, error) {
	var b strings.Builder
	b.WriteString(`INSERT INTO courses (
		crn, id, term, term_code, subject, subject_code, attributes,
		title, instructor, credit_hours, time, proj_enr, curr_enr,
		seats_avail, status) VALUES `)

	args := make([]interface{}, 0, len(courses)*courseColumns)
	for i, c := range courses {
		times, err := encodeTimes(c.Times)
		if err != nil {
			return "", nil, fmt.Errorf("encode times for crn %s: %w", c.Crn, err)
		}

		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for col := 0; col < courseColumns; col++ {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*courseColumns+col+1)
		}
		b.WriteString(")")

		args = append(args,
			c.Crn, c.ID, c.Term, c.TermCode, c.Subject, c.SubjectCode,
			pq.Array(c.Attributes), c.Title, c.Instructor, c.CreditHours,
			times, c.ProjEnr, c.CurrEnr, c.SeatsAvail, c.Status)
	}

	return b.String(), args, nil
}

// encodeTimes serializes the day → span map, mapping a nil map to "{}"
// rather than "null".
func encodeTimes(times map[string]scrape.TimeSpan) (string, error) {
	if times == nil {
		times = map[string]scrape.TimeSpan{}
	}
	encoded, err := json.Marshal(times)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (p Postgres) Close() error {
	return p.db.Close()
}
