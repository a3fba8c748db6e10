package report

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/openswoop/courselist/pkg/scrape"
)

type catalogView struct {
	Crn         string `csv:"crn"`
	ID          string `csv:"id"`
	Term        string `csv:"term"`
	TermCode    string `csv:"term_code"`
	Subject     string `csv:"subject"`
	SubjectCode string `csv:"subject_code"`
	Attributes  string `csv:"attributes"`
	Title       string `csv:"title"`
	Instructor  string `csv:"instructor"`
	CreditHours string `csv:"credit_hours"`
	Time        string `csv:"time"`
	ProjEnr     int    `csv:"proj_enr"`
	CurrEnr     int    `csv:"curr_enr"`
	SeatsAvail  string `csv:"seats_avail"`
	Status      string `csv:"status"`
}

// WriteCatalog dumps the crawled courses to name.csv, ordered by term,
// subject, and CRN.
func WriteCatalog(name string, courses []scrape.Course) error {
	rows := make([]catalogView, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, toCatalogView(c))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TermCode != rows[j].TermCode {
			return rows[i].TermCode < rows[j].TermCode
		}
		if rows[i].SubjectCode != rows[j].SubjectCode {
			return rows[i].SubjectCode < rows[j].SubjectCode
		}
		return rows[i].Crn < rows[j].Crn
	})

	return WriteCsv(rows, name+".csv")
}

func toCatalogView(c scrape.Course) catalogView {
	times := c.Times
	if times == nil {
		times = map[string]scrape.TimeSpan{}
	}
	encoded, _ := json.Marshal(times)

	return catalogView{
		Crn:         c.Crn,
		ID:          c.ID,
		Term:        c.Term,
		TermCode:    c.TermCode,
		Subject:     c.Subject,
		SubjectCode: c.SubjectCode,
		Attributes:  strings.Join(c.Attributes, ", "),
		Title:       c.Title,
		Instructor:  c.Instructor,
		CreditHours: c.CreditHours,
		Time:        string(encoded),
		ProjEnr:     c.ProjEnr,
		CurrEnr:     c.CurrEnr,
		SeatsAvail:  c.SeatsAvail,
		Status:      c.Status,
	}
}

func WriteCsv(in interface{}, fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	err = gocsv.Marshal(in, file)
	if err != nil {
		return err
	}
	return file.Close()
}
