package scrape

// Time is a wall-clock time of day.
type Time struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// TimeSpan is one scheduled meeting block. End is not required to fall
// after Start; the courselist data occasionally lists spans that cross
// midnight and we store them as published.
type TimeSpan struct {
	Start Time `json:"start"`
	End   Time `json:"end"`
}

// Course is one row of the search results table, stamped with the term
// and subject the query was made for.
type Course struct {
	Crn         string
	ID          string
	Term        string
	TermCode    string
	Subject     string
	SubjectCode string
	Attributes  []string
	Title       string
	Instructor  string
	CreditHours string
	Times       map[string]TimeSpan
	ProjEnr     int
	CurrEnr     int
	SeatsAvail  string
	Status      string
}

// Option is one entry of a search form dropdown, either a term or a
// subject. Name is the human-readable label, Code the form value.
type Option struct {
	Name string
	Code string
}

// Catalog holds the selectable terms and subjects scraped from the
// courselist landing page.
type Catalog struct {
	Terms    []Option
	Subjects []Option
}
