package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/celltrail/internal/config"
	"github.com/celltrail/internal/db"
	"github.com/celltrail/internal/geocode"
	"github.com/celltrail/internal/ingest"
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "celltrail",
		Short: "CellTrail CDR ingestion toolkit",
		Long:  `Parse carrier call-detail-record exports, geocode cell sites and load traces into PostGIS`,
	}

	rootCmd.AddCommand(createIngestCmd())
	rootCmd.AddCommand(createGeocodeCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newResolver builds the full resolution chain from the environment.
func newResolver() *geocode.Resolver {
	var cache geocode.Cache = geocode.NopCache{}
	if url := config.GetEnv("REDIS_URL", ""); url != "" {
		redisCache, err := geocode.NewRedisCache(url)
		if err != nil {
			log.Fatalf("Failed to configure redis: %v", err)
		}
		cache = redisCache
	}
	dict := geocode.NewSiteDictionary(config.GetEnv("SITE_DICTIONARY_PATH", "data/site_dictionary.csv"))
	return geocode.NewResolver(dict, cache, geocode.NewGoogleGeocoder(), geocode.NewNominatimGeocoder())
}

// createIngestCmd creates the ingest subcommand
func createIngestCmd() *cobra.Command {
	var projectID, targetID string

	cmd := &cobra.Command{
		Use:   "ingest [filename]",
		Short: "Ingest one carrier export file",
		Long:  `Parse a CSV/TSV/TXT, XLSX or PDF carrier export and load its rows into raw_traces`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				log.Fatalf("Failed to read %s: %v", filename, err)
			}

			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			pipeline := ingest.NewPipeline(newResolver(), ingest.NewBatchWriter(conn.DB))

			start := time.Now()
			result, err := pipeline.Ingest(context.Background(), projectID, targetID, filename, data)
			if err != nil {
				log.Fatalf("Ingestion failed: %v", err)
			}

			fmt.Printf("Processed %d rows in %v\n", result.Total, time.Since(start).Round(time.Millisecond))
			fmt.Printf("  inserted: %d\n", result.Inserted)
			fmt.Printf("  skipped:  %d\n", result.Skipped)
			for _, msg := range result.Errors {
				fmt.Printf("  - %s\n", msg)
			}
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "project identifier (required)")
	cmd.Flags().StringVar(&targetID, "target", "", "target identifier (required)")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("target")

	return cmd
}

// createGeocodeCmd creates a command to run the resolver chain once
func createGeocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode [address]",
		Short: "Resolve one address through the geocoding chain",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pt, diags := newResolver().Resolve(context.Background(), "", args[0])
			for _, diag := range diags {
				fmt.Printf("warning: %s\n", diag)
			}
			if pt == nil {
				fmt.Println("No result")
				os.Exit(1)
			}
			fmt.Printf("%.7f,%.7f\n", pt.Lat, pt.Lng)
		},
	}
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			fmt.Println("Database connection successful!")

			var count int
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM raw_traces").Scan(&count); err != nil {
				log.Printf("Error counting raw_traces records: %v", err)
			} else {
				fmt.Printf("Trace records loaded: %d\n", count)
			}

			var postgis string
			if err := conn.DB.QueryRow("SELECT postgis_full_version()").Scan(&postgis); err != nil {
				log.Printf("PostGIS not available: %v", err)
			} else {
				fmt.Printf("PostGIS: %s\n", postgis)
			}
		},
	}
}
