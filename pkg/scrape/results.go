package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// The search results table has a fixed 11-column layout.
const resultColumns = 11

var danglingCellR = regexp.MustCompile(`</tr>\s*<td>`)

// RepairRows patches up the known malformation of courselist result
// pages: non-empty tables are emitted as runs of <td> cells with closing
// </tr> tags but no opening <tr> tags. A row opener is inserted after the
// body opener and after every close-then-cell boundary. Pages with an
// empty table body don't exhibit the bug and should not be passed here.
func RepairRows(html string) string {
	html = strings.ReplaceAll(html, "<tbody>", "<tbody><tr>")
	return danglingCellR.ReplaceAllString(html, "</tr><tr><td>")
}

// ParseResults extracts every course row from a search results document.
// The caller supplies the term and subject the query was made for, since
// the rows themselves don't carry them. A body with no rows yields an
// empty slice. A row whose enrollment cells aren't integers fails the
// whole table.
func ParseResults(doc *goquery.Document, term Option, subject Option) ([]Course, error) {
	results := doc.Find("#results")
	if results.Length() == 0 {
		return nil, &ParseError{Missing: "#results container"}
	}
	tbody := results.Find("table tbody")
	if tbody.Length() == 0 {
		return nil, &ParseError{Missing: "results table body"}
	}

	var courses []Course
	var rowErr error

	tbody.Find("tr").EachWithBreak(func(i int, s *goquery.Selection) bool {
		cells := s.Find("td")
		if cells.Length() == 0 {
			return true // header or spacer row
		}
		if cells.Length() < resultColumns {
			rowErr = &ParseError{Missing: fmt.Sprintf("row %d: expected %d columns, found %d", i, resultColumns, cells.Length())}
			return false
		}

		crn := cells.Eq(0).Find("a")
		if crn.Length() == 0 {
			rowErr = &ParseError{Missing: fmt.Sprintf("row %d: crn link", i)}
			return false
		}

		projEnr, err := strconv.Atoi(strings.TrimSpace(cells.Eq(7).Text()))
		if err != nil {
			rowErr = &RowParseError{Row: i, Column: 7, Field: "proj_enr", Err: err}
			return false
		}
		currEnr, err := strconv.Atoi(strings.TrimSpace(cells.Eq(8).Text()))
		if err != nil {
			rowErr = &RowParseError{Row: i, Column: 8, Field: "curr_enr", Err: err}
			return false
		}

		courses = append(courses, Course{
			Crn:         crn.Text(),
			ID:          cells.Eq(1).Text(),
			Term:        term.Name,
			TermCode:    term.Code,
			Subject:     subject.Name,
			SubjectCode: subject.Code,
			Attributes:  splitAttributes(cells.Eq(2).Text()),
			Title:       cells.Eq(3).Text(),
			Instructor:  cells.Eq(4).Text(),
			CreditHours: cells.Eq(5).Text(), // TODO: parse ranges like "1-3"
			Times:       ParseTimes(cells.Eq(6).Text()),
			ProjEnr:     projEnr,
			CurrEnr:     currEnr,
			SeatsAvail:  cells.Eq(9).Text(),
			Status:      cells.Eq(10).Text(),
		})
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return courses, nil
}

// splitAttributes breaks up the comma-separated attribute cell and
// normalizes each entry to NFC. The site serves some accented attribute
// names with decomposed combining marks, which would otherwise compare
// unequal to their precomposed spellings.
func splitAttributes(text string) []string {
	parts := strings.Split(text, ", ")
	attributes := make([]string, len(parts))
	for i, part := range parts {
		attributes[i] = norm.NFC.String(part)
	}
	return attributes
}
