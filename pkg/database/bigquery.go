package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/openswoop/courselist/pkg/scrape"
	"google.golang.org/api/googleapi"
)

type BigQuery struct {
	ctx     context.Context
	client  *bigquery.Client
	dataset *bigquery.Dataset
}

// bqCourse mirrors courseRow except that attributes stay a repeated
// field, which BigQuery supports natively.
type bqCourse struct {
	Crn         string   `bigquery:"crn"`
	ID          string   `bigquery:"id"`
	Term        string   `bigquery:"term"`
	TermCode    string   `bigquery:"term_code"`
	Subject     string   `bigquery:"subject"`
	SubjectCode string   `bigquery:"subject_code"`
	Attributes  []string `bigquery:"attributes"`
	Title       string   `bigquery:"title"`
	Instructor  string   `bigquery:"instructor"`
	CreditHours string   `bigquery:"credit_hours"`
	Time        string   `bigquery:"time"`
	ProjEnr     int      `bigquery:"proj_enr"`
	CurrEnr     int      `bigquery:"curr_enr"`
	SeatsAvail  string   `bigquery:"seats_avail"`
	Status      string   `bigquery:"status"`
}

func NewBigQuery(projectID, datasetID string) (BigQuery, error) {
	var bq BigQuery

	// Set up BigQuery
	ctx := context.Background()
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return bq, fmt.Errorf("failed to create client: %v", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil {
		if !isDuplicateError(err) {
			return bq, fmt.Errorf("failed to create dataset: %v", err)
		}
	}

	bq = BigQuery{ctx, client, dataset}
	return bq, nil
}

func (bq BigQuery) SaveCourses(courses []scrape.Course) error {
	rows := make([]bqCourse, 0, len(courses))
	for _, c := range courses {
		times, err := encodeTimes(c.Times)
		if err != nil {
			return err
		}
		rows = append(rows, bqCourse{
			Crn:         c.Crn,
			ID:          c.ID,
			Term:        c.Term,
			TermCode:    c.TermCode,
			Subject:     c.Subject,
			SubjectCode: c.SubjectCode,
			Attributes:  c.Attributes,
			Title:       c.Title,
			Instructor:  c.Instructor,
			CreditHours: c.CreditHours,
			Time:        times,
			ProjEnr:     c.ProjEnr,
			CurrEnr:     c.CurrEnr,
			SeatsAvail:  c.SeatsAvail,
			Status:      c.Status,
		})
	}

	// Infer the table schema
	schema, err := bigquery.InferSchema(bqCourse{})
	if err != nil {
		return fmt.Errorf("failed to infer schema: %v", err)
	}

	// Get a reference to the table
	table := bq.dataset.Table("courses")
	if err := table.Create(bq.ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	// Upload data
	u := table.Inserter()
	if err := u.Put(bq.ctx, rows); err != nil {
		return fmt.Errorf("failed to insert rows: %v", err)
	}

	return nil
}

func (bq BigQuery) Close() error {
	return bq.client.Close()
}

func isDuplicateError(err error) bool {
	if e, ok := err.(*googleapi.Error); ok {
		return e.Code == 409
	} else {
		return false
	}
}
