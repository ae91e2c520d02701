// collectids downloads the configured knowledge-graph exports and writes
// the de-duplicated external compound identifiers they mention, one list
// per vocabulary (drugbank.txt, chembl.txt, pubchem.txt).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/npeschke/jump-monorepo/annotate"
	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
)

func main() {
	var outputPath string
	var redownload bool

	flag.StringVar(&outputPath, "out", "", "Directory where the external_ids lists are written.")
	flag.BoolVar(&redownload, "redownload", false, "Force redownload of the source archives.")
	flag.Parse()

	if outputPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Println("Started running at", time.Now())
	defer func() {
		log.Println("Completed at", time.Now())
	}()

	ctx := context.Background()
	sources := annotate.Sources()

	if redownload {
		for _, src := range sources {
			path, err := annotate.CachePath(src)
			if err != nil {
				log.Fatalln(err)
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Fatalln(err)
			}
		}
	}

	if err := annotate.Collect(ctx, sources, filepath.Join(outputPath, "external_ids")); err != nil {
		log.Fatalln(err)
	}

	log.Println("Wrote id lists under", filepath.Join(outputPath, "external_ids"))
}
