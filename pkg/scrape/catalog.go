package scrape

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// BaseURL is the courselist landing page. Search result URLs are built
// relative to it.
const BaseURL = "https://courselist.wm.edu/courselist/"

// GetCatalog fetches the landing page and reads the term and subject
// dropdowns out of the search form. Placeholder entries (value "0") are
// dropped.
func GetCatalog(c *colly.Collector, baseURL string) (Catalog, error) {
	var catalog Catalog
	var parseErr error

	c = c.Clone() // same collector but without old callbacks
	c.OnResponse(func(res *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			parseErr = err
			return
		}
		catalog.Terms, err = parseSelect(doc, baseURL, "term_code")
		if err != nil {
			parseErr = err
			return
		}
		catalog.Subjects, parseErr = parseSelect(doc, baseURL, "term_subj")
	})

	if err := c.Visit(baseURL); err != nil {
		return Catalog{}, &NetworkError{URL: baseURL, Err: err}
	}
	if parseErr != nil {
		return Catalog{}, parseErr
	}
	return catalog, nil
}

func parseSelect(doc *goquery.Document, url string, id string) ([]Option, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return nil, &ParseError{URL: url, Missing: "select #" + id}
	}

	var options []Option
	sel.Find("option").Each(func(_ int, s *goquery.Selection) {
		code, ok := s.Attr("value")
		if !ok || code == "0" {
			return // "All terms" / "All subjects" placeholder
		}
		options = append(options, Option{Name: s.Text(), Code: code})
	})
	return options, nil
}
