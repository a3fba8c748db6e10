package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/openswoop/courselist/pkg/scrape"
	"github.com/spf13/cobra"
)

var c *colly.Collector

var cacheDir = "/courselist/web-cache"

var (
	noCache bool
	baseURL string
	workers int
	timeout time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "courselist",
	Short: "A tool for scraping the William & Mary open course list",
	Long: `Crawls the W&M course list across every term and subject and collects
the results into a single course table. The crawl can be written to a
CSV file, a SQLite or Postgres database, or streamed to BigQuery.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initColly)

	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the web cache (default: false)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", scrape.BaseURL, "Base URL of the course list site")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", scrape.DefaultWorkers, "Number of concurrent search queries")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", scrape.DefaultTimeout, "Deadline for the whole crawl")
}

func initColly() {
	c = colly.NewCollector()
	if !noCache {
		userCacheDir, _ := os.UserCacheDir()
		c.CacheDir = userCacheDir + cacheDir
	}
}
