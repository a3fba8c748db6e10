package scrape

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

var (
	testTerm    = Option{Name: "Fall 2023", Code: "20233"}
	testSubject = Option{Name: "Computer Science", Code: "CSCI"}
)

func resultRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, cell := range cells {
		b.WriteString("<td>" + cell + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func courseRow(crn, id, attrs, title, instructor, credits, times, proj, curr, seats, status string) string {
	return resultRow(
		fmt.Sprintf(`<a href="courseinfo/addInfo?fterm=&fcrn=%s">%s</a>`, crn, crn),
		id, attrs, title, instructor, credits, times, proj, curr, seats, status,
	)
}

func resultsPage(rows ...string) string {
	return `<html><body><div id="results"><table><tbody>` +
		strings.Join(rows, "\n") +
		`</tbody></table></div></body></html>`
}

func parsePage(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	return doc
}

func TestParseResultsFields(t *testing.T) {
	page := resultsPage(courseRow(
		"12345", "CSCI 141", "C100, NQR", "Computational Problem Solving",
		"Deverick, James", "4", "MWF:0900-0950", "10", "8", "2", "OPEN",
	))

	courses, err := ParseResults(parsePage(t, page), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}

	expected := Course{
		Crn:         "12345",
		ID:          "CSCI 141",
		Term:        "Fall 2023",
		TermCode:    "20233",
		Subject:     "Computer Science",
		SubjectCode: "CSCI",
		Attributes:  []string{"C100", "NQR"},
		Title:       "Computational Problem Solving",
		Instructor:  "Deverick, James",
		CreditHours: "4",
		Times: map[string]TimeSpan{
			"M": {Start: Time{9, 0}, End: Time{9, 50}},
			"W": {Start: Time{9, 0}, End: Time{9, 50}},
			"F": {Start: Time{9, 0}, End: Time{9, 50}},
		},
		ProjEnr:    10,
		CurrEnr:    8,
		SeatsAvail: "2",
		Status:     "OPEN",
	}
	if !reflect.DeepEqual(courses[0], expected) {
		t.Errorf("parsed course = %+v, expected %+v", courses[0], expected)
	}
}

func TestParseResultsEmptyBody(t *testing.T) {
	courses, err := ParseResults(parsePage(t, resultsPage()), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("expected 0 courses, got %d", len(courses))
	}
}

func TestParseResultsMissingContainer(t *testing.T) {
	_, err := ParseResults(parsePage(t, `<html><body><p>down for maintenance</p></body></html>`), testTerm, testSubject)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseResultsBadEnrollment(t *testing.T) {
	page := resultsPage(courseRow(
		"12345", "CSCI 141", "C100", "Computational Problem Solving",
		"Deverick, James", "4", "MWF:0900-0950", "N/A", "8", "2", "OPEN",
	))

	courses, err := ParseResults(parsePage(t, page), testTerm, testSubject)
	var rowErr *RowParseError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowParseError, got %v", err)
	}
	if rowErr.Column != 7 || rowErr.Field != "proj_enr" {
		t.Errorf("expected failure at column 7 (proj_enr), got column %d (%s)", rowErr.Column, rowErr.Field)
	}
	if courses != nil {
		t.Errorf("expected no courses on row failure, got %d", len(courses))
	}
}

func TestAttributeNormalization(t *testing.T) {
	// "Exposé" precomposed vs "Exposé" with a combining accent
	precomposed := resultsPage(courseRow(
		"10001", "FREN 310", "Exposé", "Topics", "A", "3", "TBA", "10", "5", "5", "OPEN",
	))
	decomposed := resultsPage(courseRow(
		"10001", "FREN 310", "Exposé", "Topics", "A", "3", "TBA", "10", "5", "5", "OPEN",
	))

	a, err := ParseResults(parsePage(t, precomposed), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	b, err := ParseResults(parsePage(t, decomposed), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if !reflect.DeepEqual(a[0].Attributes, b[0].Attributes) {
		t.Errorf("attributes differ after normalization: %q vs %q", a[0].Attributes, b[0].Attributes)
	}
}

func TestRepairRowsRoundTrip(t *testing.T) {
	row1 := courseRow("12345", "CSCI 141", "C100", "Computational Problem Solving",
		"Deverick, James", "4", "MWF:0900-0950", "10", "8", "2", "OPEN")
	row2 := courseRow("12346", "CSCI 241", "C100", "Data Structures",
		"Kemper, Peter", "3", "TR:1100-1220", "40", "40", "0", "CLOSED")

	wellformed := resultsPage(row1, row2)
	// The site omits the opening <tr> tags on non-empty result tables
	malformed := strings.ReplaceAll(wellformed, "<tr>", "")

	expected, err := ParseResults(parsePage(t, wellformed), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed on well-formed markup: %v", err)
	}
	repaired, err := ParseResults(parsePage(t, RepairRows(malformed)), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed on repaired markup: %v", err)
	}

	if !reflect.DeepEqual(expected, repaired) {
		t.Errorf("repaired parse = %+v, expected %+v", repaired, expected)
	}
}

func TestRepairRowsLeavesEmptyTableAlone(t *testing.T) {
	page := resultsPage()
	if got := RepairRows(page); !strings.Contains(got, "<tbody><tr>") {
		t.Errorf("RepairRows should insert a row opener after the body opener, got %q", got)
	}
	// An empty table is never passed through RepairRows by the crawler;
	// parsing the untouched page must yield zero rows.
	courses, err := ParseResults(parsePage(t, page), testTerm, testSubject)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("expected 0 courses, got %d", len(courses))
	}
}
