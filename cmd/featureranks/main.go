// featureranks turns a well-level profiles table into the explorable
// feature-ranking table the dataset browser serves: per feature group, the
// perturbations with the most and least significant deviations from the
// negative controls.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/npeschke/jump-monorepo/babel"
	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
	"github.com/npeschke/jump-monorepo/features"
)

func main() {
	var profilesPath, babelPath, output string
	var n, negconsPerPlate int
	var seed int64

	flag.StringVar(&profilesPath, "profiles", "", "Path to the profiles CSV (optionally gzipped).")
	flag.StringVar(&babelPath, "babel", "", "Optional path to the name-translation SQLite database.")
	flag.StringVar(&output, "out", "feature_ranks.csv", "Output CSV path.")
	flag.IntVar(&n, "n", 50, "Number of top and bottom perturbations kept per feature group.")
	flag.IntVar(&negconsPerPlate, "negcons-per-plate", 2, "Negative controls sampled per plate for the significance tests (0 keeps all).")
	flag.Int64Var(&seed, "seed", 42, "Seed for the control subsampling.")
	flag.Parse()

	if profilesPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Println("Started running at", time.Now())
	defer func() {
		log.Println("Completed at", time.Now())
	}()

	f, err := os.Open(profilesPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	profiles, err := features.LoadProfiles(f)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded", len(profiles.Meta), "profiles with", len(profiles.Columns), "feature columns")

	var translator features.Translator
	if babelPath != "" {
		tr, err := babel.Open(babelPath)
		if err != nil {
			log.Fatalln(err)
		}
		defer tr.Close()
		translator = tr
	}

	rows, err := features.BuildRankTable(profiles, translator, features.RankOptions{
		N:               n,
		NegconsPerPlate: negconsPerPlate,
		Seed:            seed,
	})
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Ranked", len(rows), "feature/perturbation pairs")

	out, err := os.Create(output)
	if err != nil {
		log.Fatalln(err)
	}
	defer out.Close()

	if err := features.WriteCSV(out, rows); err != nil {
		log.Fatalln(err)
	}
}
