package database

import (
	"io"

	"github.com/openswoop/courselist/pkg/scrape"
)

type Database interface {
	io.Closer
	SaveCourses([]scrape.Course) error
}
