package scrape

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers bounds how many search queries run at once.
	DefaultWorkers = 20
	// DefaultTimeout is the deadline for the whole crawl, not per request.
	DefaultTimeout = 60 * time.Second
)

// Crawler fetches search results for every term and subject combination.
type Crawler struct {
	baseURL string
	workers int
	timeout time.Duration
	client  *http.Client
}

// NewCrawler returns a Crawler rooted at baseURL. A workers or timeout
// value of zero falls back to the default.
func NewCrawler(baseURL string, workers int, timeout time.Duration) *Crawler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Crawler{
		baseURL: baseURL,
		workers: workers,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// SearchURL builds the results query for one term and subject pair. The
// remaining form fields are pinned to their "any" values.
func SearchURL(baseURL, termCode, subjectCode string) string {
	v := url.Values{}
	v.Set("term_code", termCode)
	v.Set("term_subj", subjectCode)
	v.Set("attr", "0")
	v.Set("attr2", "0")
	v.Set("levl", "0")
	v.Set("status", "0")
	v.Set("ptrm", "0")
	v.Set("search", "Search")
	return strings.TrimSuffix(baseURL, "/") + "/courseinfo/searchresults?" + v.Encode()
}

type pair struct {
	term    Option
	subject Option
}

// CrawlAll queries every term × subject combination from the catalog and
// returns the flattened course list. Tasks run on a bounded pool under a
// single deadline; the deadline cancels in-flight requests and fails the
// whole crawl with a TimeoutError, discarding any tasks that did finish.
// The first network or parse failure likewise fails the crawl.
func (c *Crawler) CrawlAll(ctx context.Context, catalog Catalog) ([]Course, error) {
	var pairs []pair
	for _, term := range catalog.Terms {
		for _, subject := range catalog.Subjects {
			pairs = append(pairs, pair{term, subject})
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	// One result slot per task; no two tasks share a slot so no lock is
	// needed.
	resultSets := make([][]Course, len(pairs))
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			courses, err := c.fetchPair(ctx, p.term, p.subject)
			if err != nil {
				return err
			}
			resultSets[i] = courses
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Deadline: c.timeout}
		}
		return nil, err
	}

	var courses []Course
	for _, set := range resultSets {
		courses = append(courses, set...)
	}
	return courses, nil
}

// fetchPair runs one search query and parses the response. When the
// result table is non-empty its markup is repaired before parsing (see
// RepairRows).
func (c *Crawler) fetchPair(ctx context.Context, term Option, subject Option) ([]Course, error) {
	searchURL := SearchURL(c.baseURL, term.Code, subject.Code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: searchURL, Err: err}
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: searchURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: searchURL, Status: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{URL: searchURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: searchURL, Missing: "parseable document"}
	}

	if doc.Find("#results table tbody td").Length() > 0 {
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(RepairRows(string(body))))
		if err != nil {
			return nil, &ParseError{URL: searchURL, Missing: "parseable document"}
		}
	}

	courses, err := ParseResults(doc, term, subject)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.URL == "" {
			pe.URL = searchURL
		}
		return nil, err
	}
	return courses, nil
}
