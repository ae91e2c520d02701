package main

import (
	jump "github.com/npeschke/jump-monorepo"
	"github.com/npeschke/jump-monorepo/datadict"
)

type Global struct {
	log     logger
	clients jump.StorageClients

	Site string
	dict *datadict.Dictionary

	// ThumbnailWidth caps the width of served images. 0 serves the full
	// resolution.
	ThumbnailWidth int
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
