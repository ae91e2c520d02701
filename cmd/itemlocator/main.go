// itemlocator finds every imaging site for a perturbation of interest (a
// gene or compound by its standard name) and emits a tab-delimited manifest
// of image locations, optionally with the negative controls that share its
// plates.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	jump "github.com/npeschke/jump-monorepo"
	"github.com/npeschke/jump-monorepo/babel"
	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
	"github.com/npeschke/jump-monorepo/portrait"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var item, babelPath, channel string
	var controls bool
	var concurrency int

	flag.StringVar(&item, "item", "", "Standard name of the gene or compound of interest.")
	flag.StringVar(&babelPath, "babel", "babel.db", "Path to the name-translation SQLite database.")
	flag.StringVar(&channel, "channel", "DNA", "Channel whose image paths are listed in the manifest.")
	flag.BoolVar(&controls, "controls", true, "Also list the negative-control wells on the same plates.")
	flag.IntVar(&concurrency, "concurrency", 0, "Simultaneous load-data frame reads (0 chooses a CPU-based default).")
	flag.Parse()

	if item == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()

	tr, err := babel.Open(babelPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer tr.Close()

	wellPath, err := portrait.Retrieve(ctx, portrait.TableWell)
	if err != nil {
		log.Fatalln(err)
	}
	wells, err := portrait.LoadWells(wellPath)
	if err != nil {
		log.Fatalln(err)
	}

	platePath, err := portrait.Retrieve(ctx, portrait.TablePlate)
	if err != nil {
		log.Fatalln(err)
	}
	plates, err := portrait.LoadPlates(platePath)
	if err != nil {
		log.Fatalln(err)
	}

	locs, err := portrait.ItemLocations(item, wells, plates, tr, controls)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Found", len(locs), "wells for", item)

	s3c, err := jump.NewAnonymousS3Client(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	clients := jump.StorageClients{S3: s3c}

	matched := portrait.ImageLocations(ctx, clients, locs, concurrency)

	fmt.Fprintln(STDOUT, "standard_key\tjcp2022\tsource\tbatch\tplate\twell\tsite\timage_path")
	for _, wi := range matched {
		imagePath, err := portrait.ImagePath(wi.Row, channel, "")
		if err != nil {
			log.Println(err)
			continue
		}

		fmt.Fprintf(STDOUT, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			wi.StandardKey, wi.JCP, wi.Source, wi.Batch, wi.Plate,
			wi.Well, wi.Row.Site(), imagePath)
	}
}
