package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/pubsub"
	"github.com/openswoop/courselist/pkg/database"
	"github.com/openswoop/courselist/pkg/scrape"

	"github.com/spf13/cobra"
)

const (
	projectID = "courselist-2a7f1"
	datasetID = "courselist"
	topicID   = "catalog-refreshed"
)

var dryRun bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Crawl the full course list to BigQuery",
	Long: `Crawls every term and subject combination and streams the resulting
course table to BigQuery, then publishes a catalog-refreshed event so
downstream consumers can pick up the new snapshot.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalog, err := scrape.GetCatalog(c.Clone(), baseURL)
		if err != nil {
			panic(err)
		}

		crawler := scrape.NewCrawler(baseURL, workers, timeout)
		courses, err := crawler.CrawlAll(context.Background(), catalog)
		if err != nil {
			panic(err)
		}
		log.Println("Found", len(courses), "courses")

		if dryRun {
			fmt.Println("Dry run: data will not be inserted")
			return
		}

		// Connect to BigQuery
		bq, err := database.NewBigQuery(projectID, datasetID)
		if err != nil {
			panic(fmt.Errorf("failed to connect to bigquery: %v", err))
		}
		if err := bq.SaveCourses(courses); err != nil {
			panic(fmt.Errorf("failed to insert courses: %v", err))
		}
		_ = bq.Close()

		// Connect to PubSub
		ctx := context.Background()
		client, err := pubsub.NewClient(ctx, projectID)
		if err != nil {
			log.Fatalf("Failed to create client: %v", err)
		}

		msg, err := json.Marshal(struct {
			CourseCount int `json:"courseCount"`
		}{len(courses)})
		if err != nil {
			log.Fatalf("Failed to create message: %v", err)
		}

		// Publish an event
		topic := client.Topic(topicID)
		res := topic.Publish(ctx, &pubsub.Message{Data: msg})
		if _, err := res.Get(ctx); err != nil {
			log.Fatalf("Failed to publish message: %v", err)
		}

		fmt.Println("Done.")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without modifying the database (default: false)")
}
