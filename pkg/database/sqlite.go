package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/go-gorp/gorp/v3"
	"github.com/mattn/go-sqlite3"
	"github.com/openswoop/courselist/pkg/scrape"
)

type Sqlite struct {
	db    *sql.DB
	dbmap *gorp.DbMap
}

// courseRow is the flattened table shape: attributes as a JSON array and
// the meeting times as a JSON document.
type courseRow struct {
	Crn         string `db:"crn"`
	ID          string `db:"id"`
	Term        string `db:"term"`
	TermCode    string `db:"term_code"`
	Subject     string `db:"subject"`
	SubjectCode string `db:"subject_code"`
	Attributes  string `db:"attributes"`
	Title       string `db:"title"`
	Instructor  string `db:"instructor"`
	CreditHours string `db:"credit_hours"`
	Time        string `db:"time"`
	ProjEnr     int    `db:"proj_enr"`
	CurrEnr     int    `db:"curr_enr"`
	SeatsAvail  string `db:"seats_avail"`
	Status      string `db:"status"`
}

func NewSqlite(file string) Sqlite {
	sqlite := Sqlite{}

	// Initialize the database connection
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		log.Panic("Unable to connect to database: ", err)
	}
	sqlite.db = db

	// Initialize the database mapping, creating the table if it's our first run.
	// Cross-listings land under different subject codes, so keying uniqueness
	// on (crn, term_code, subject_code) keeps them while making re-runs
	// idempotent.
	dbmap := &gorp.DbMap{Db: db, Dialect: gorp.SqliteDialect{}}
	dbmap.AddTableWithName(courseRow{}, "courses").SetUniqueTogether("Crn", "TermCode", "SubjectCode")
	err = dbmap.CreateTablesIfNotExists()
	if err != nil {
		log.Panic("Unable to create tables: ", err)
	}
	sqlite.dbmap = dbmap

	return sqlite
}

func (s Sqlite) SaveCourses(courses []scrape.Course) error {
	rows := make([]interface{}, 0, len(courses))
	for _, c := range courses {
		row, err := toRow(c)
		if err != nil {
			return err
		}
		rows = append(rows, &row)
	}
	return s.save(rows)
}

func toRow(c scrape.Course) (courseRow, error) {
	attributes, err := json.Marshal(c.Attributes)
	if err != nil {
		return courseRow{}, err
	}
	times, err := encodeTimes(c.Times)
	if err != nil {
		return courseRow{}, err
	}
	return courseRow{
		Crn:         c.Crn,
		ID:          c.ID,
		Term:        c.Term,
		TermCode:    c.TermCode,
		Subject:     c.Subject,
		SubjectCode: c.SubjectCode,
		Attributes:  string(attributes),
		Title:       c.Title,
		Instructor:  c.Instructor,
		CreditHours: c.CreditHours,
		Time:        times,
		ProjEnr:     c.ProjEnr,
		CurrEnr:     c.CurrEnr,
		SeatsAvail:  c.SeatsAvail,
		Status:      c.Status,
	}, nil
}

func (s Sqlite) save(rows []interface{}) error {
	tx, err := s.dbmap.Begin()
	if err != nil {
		return err
	}
	for _, row := range rows {
		err := tx.Insert(row)
		var sqliteError sqlite3.Error
		if errors.As(err, &sqliteError) {
			if errors.Is(sqliteError.ExtendedCode, sqlite3.ErrConstraintUnique) {
				continue // silently ignore duplicates
			}
		}
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s Sqlite) Close() error {
	return s.db.Close()
}
