// dictserver is the HTTP backend for the dataset browser. It serves the data
// dictionary (full document and flattened columns) and display-ready PNGs of
// individual imaging sites fetched from the JUMP Cell Painting gallery.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	jump "github.com/npeschke/jump-monorepo"
	_ "github.com/npeschke/jump-monorepo/buildinfoprint"
	"github.com/npeschke/jump-monorepo/datadict"
)

var global *Global

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		os.Kill,
		syscall.SIGTERM,
	)

	var dictPath string
	var port, thumbnailWidth int
	flag.StringVar(&dictPath, "dict", "", "(Optional) Path to a dictionary JSON document. If empty, the embedded standard dictionary is served.")
	flag.IntVar(&port, "port", 9019, "Port for HTTP server")
	flag.IntVar(&thumbnailWidth, "thumbnail-width", 0, "(Optional) If set, served images are downsampled to this width.")
	flag.Parse()

	var dict *datadict.Dictionary
	var err error
	if dictPath == "" {
		dict, err = datadict.Standard()
	} else {
		dict, err = datadict.LoadFile(dictPath)
	}
	if err != nil {
		log.Fatalln(err)
	}
	if err := dict.Validate(); err != nil {
		log.Fatalln(err)
	}

	ctx := context.Background()
	s3c, err := jump.NewAnonymousS3Client(ctx)
	if err != nil {
		log.Fatalln(err)
	}

	global = &Global{
		log:     log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		clients: jump.StorageClients{S3: s3c},

		Site:           "JUMP data dictionary",
		dict:           dict,
		ThumbnailWidth: thumbnailWidth,
	}

	global.log.Println("Launching", global.Site)

	go func() {
		global.log.Println("Starting HTTP server on port", port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, port), router(global)); err != nil {
			errors <- err
			global.log.Println(err)
			sig <- syscall.SIGTERM
			return
		}
	}()

	<-sig
	global.log.Println("Shutting down")
}
