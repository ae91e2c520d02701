// jumpimage fetches a single channel of a single imaging site from the
// JUMP Cell Painting gallery and writes it out as a display-ready PNG.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"os"

	jump "github.com/npeschke/jump-monorepo"
	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
	"github.com/npeschke/jump-monorepo/portrait"
)

func main() {
	var source, batch, plate, well, channel, correction, output string
	var site int
	var raw bool

	flag.StringVar(&source, "source", "", "Data-generating center, e.g. source_4.")
	flag.StringVar(&batch, "batch", "", "Batch name.")
	flag.StringVar(&plate, "plate", "", "Plate name.")
	flag.StringVar(&well, "well", "", "Well, e.g. A01.")
	flag.IntVar(&site, "site", 1, "Site (field of view) within the well.")
	flag.StringVar(&channel, "channel", "DNA", "Channel to fetch. The standard ones are DNA, Mito, ER, AGP and RNA.")
	flag.StringVar(&correction, "correction", "", "Correction prefix, e.g. Illum for illumination-corrected data. Empty fetches the original images.")
	flag.StringVar(&output, "out", "image.png", "Output PNG path.")
	flag.BoolVar(&raw, "raw", false, "Skip contrast rescaling and keep the raw intensities.")
	flag.Parse()

	if source == "" || batch == "" || plate == "" || well == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()

	s3c, err := jump.NewAnonymousS3Client(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	clients := jump.StorageClients{S3: s3c}

	img, err := portrait.Image(ctx, clients, source, batch, plate, well, site, channel, correction)
	if err != nil {
		log.Fatalln(err)
	}

	if !raw {
		img = portrait.Rescale(img)
	}

	f, err := os.Create(output)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Fatalln(err)
	}

	log.Println("Wrote", output)
}
