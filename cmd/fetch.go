package cmd

import (
	"context"
	"log"
	"os"

	"github.com/openswoop/courselist/pkg/database"
	"github.com/openswoop/courselist/pkg/report"
	"github.com/openswoop/courselist/pkg/scrape"

	"github.com/spf13/cobra"
)

var dbFile = "/courselist/courses.db"

var (
	postgresDSN string
	csvName     string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Crawl the full course list to a CSV file",
	Long: `Reads the selectable terms and subjects off the course list landing
page, queries the search results for every combination, and writes the
courses found to a CSV file. The results are also inserted into a local
SQLite database, or into Postgres when --postgres is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalog, err := scrape.GetCatalog(c.Clone(), baseURL)
		if err != nil {
			panic(err)
		}
		log.Println("Found", len(catalog.Terms), "terms and", len(catalog.Subjects), "subjects")

		crawler := scrape.NewCrawler(baseURL, workers, timeout)
		courses, err := crawler.CrawlAll(context.Background(), catalog)
		if err != nil {
			panic(err)
		}
		log.Println("Found", len(courses), "courses")

		// Save all the data to the database
		if postgresDSN != "" {
			pg, err := database.NewPostgres(postgresDSN)
			if err != nil {
				panic(err)
			}
			if err := pg.SaveCourses(courses); err != nil {
				panic(err)
			}
			_ = pg.Close()
			log.Println("Saved to Postgres")
		} else {
			userCacheDir, _ := os.UserCacheDir()
			sqlite := database.NewSqlite(userCacheDir + dbFile)
			if err := sqlite.SaveCourses(courses); err != nil {
				panic(err)
			}
			_ = sqlite.Close()
			log.Println("Saved to database", dbFile)
		}

		// Write to CSV
		if err := report.WriteCatalog(csvName, courses); err != nil {
			panic(err)
		}
		log.Println("Wrote to file", csvName+".csv")
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&postgresDSN, "postgres", "", "Postgres connection string (default: save to SQLite)")
	fetchCmd.Flags().StringVar(&csvName, "csv", "courses", "Base name of the CSV file to write")
}
