// ranks2bigquery loads a feature-ranking table produced by featureranks
// into a BigQuery table, creating the table with an inferred schema when it
// does not exist yet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/gocarina/gocsv"

	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
	"github.com/npeschke/jump-monorepo/features"
)

type WrappedBigQuery struct {
	Context context.Context
	Client  *bigquery.Client
	Project string
	Dataset string
	Table   string
}

// rankRecord mirrors features.RankRow with BigQuery-safe column names.
type rankRecord struct {
	Compartment  string  `bigquery:"compartment"`
	Feature      string  `bigquery:"feature"`
	Channel      string  `bigquery:"channel"`
	Statistic    float64 `bigquery:"statistic"`
	GeneCompound string  `bigquery:"gene_compound"`
	MatchExample string  `bigquery:"match_example"`
	Median       float64 `bigquery:"median"`
	JCP          string  `bigquery:"jcp2022"`
	Resources    string  `bigquery:"resources"`
}

func main() {
	var ranksPath string
	BQ := &WrappedBigQuery{Context: context.Background()}

	flag.StringVar(&ranksPath, "ranks", "", "Feature-ranking CSV produced by featureranks.")
	flag.StringVar(&BQ.Project, "project", "", "Google Cloud project that hosts the BigQuery dataset.")
	flag.StringVar(&BQ.Dataset, "dataset", "jump", "BigQuery dataset name.")
	flag.StringVar(&BQ.Table, "table", "feature_ranks", "BigQuery table name.")
	flag.Parse()

	if ranksPath == "" || BQ.Project == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Println("Started running at", time.Now())
	defer func() {
		log.Println("Completed at", time.Now())
	}()

	f, err := os.Open(ranksPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	var rows []features.RankRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		log.Fatalln(err)
	}
	log.Println("Read", len(rows), "rank rows")

	BQ.Client, err = bigquery.NewClient(BQ.Context, BQ.Project)
	if err != nil {
		log.Fatalln(err)
	}
	defer BQ.Client.Close()

	table := BQ.Client.Dataset(BQ.Dataset).Table(BQ.Table)

	schema, err := bigquery.InferSchema(rankRecord{})
	if err != nil {
		log.Fatalln(err)
	}

	// Already-exists is fine; anything else is not.
	if err := table.Create(BQ.Context, &bigquery.TableMetadata{Schema: schema}); err != nil &&
		!strings.Contains(err.Error(), "Already Exists") {
		log.Fatalln(err)
	}

	records := make([]*rankRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, &rankRecord{
			Compartment:  r.Compartment,
			Feature:      r.Feature,
			Channel:      r.Channel,
			Statistic:    r.Statistic,
			GeneCompound: r.GeneCompound,
			MatchExample: r.MatchExample,
			Median:       r.Median,
			JCP:          r.JCP,
			Resources:    r.Resources,
		})
	}

	// The streaming inserter caps request sizes, so batch the rows.
	inserter := table.Inserter()
	const batchSize = 5000
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := inserter.Put(BQ.Context, records[start:end]); err != nil {
			log.Fatalln(err)
		}
		log.Println("Uploaded", end, "/", len(records))
	}
}
