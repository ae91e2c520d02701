// Package portrait fetches microscopy images and their location metadata
// from the JUMP Cell Painting gallery: pinned metadata tables are cached
// locally, per-plate load-data frames resolve wells to image objects, and
// the images themselves are read straight out of the public bucket.
package portrait

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/carbocation/pfx"
	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	getter "github.com/hashicorp/go-getter"

	jump "github.com/npeschke/jump-monorepo"
)

// metadataURL is the pinned revision of the JUMP metadata tables. The
// checksums below belong to this revision; bumping one requires the other.
const metadataURL = "https://github.com/jump-cellpainting/datasets/raw/baacb8be98cfa4b5a03b627b8cd005de9f5c2e70/metadata/%s.csv.gz"

type TableName string

const (
	TableCompound TableName = "compound"
	TableWell     TableName = "well"
	TableCrispr   TableName = "crispr"
	TableORF      TableName = "orf"
	TablePlate    TableName = "plate"
)

var tableChecksums = map[TableName]string{
	TableCompound: "a6e18f8728ab018bd03fe83e845b6c623027c3baf211e7b27fc0287400a33052",
	TableWell:     "677d3c1386d967f10395e86117927b430dca33e4e35d9607efe3c5c47c186008",
	TableCrispr:   "979f3c4e863662569cc36c46eaff679aece2c4466a3e6ba0fb45752b40d2bd43",
	TableORF:      "fbd644d8ccae4b02f623467b2bf8d9762cf8a224c169afa0561fedb61a697c18",
	TablePlate:    "745391d930627474ec6e3083df8b5c108db30408c0d670cdabb3b79f66eaff48",
}

// TableURL returns the pinned download URL for a metadata table.
func TableURL(name TableName) string {
	return fmt.Sprintf(metadataURL, name)
}

// CachePath returns where a metadata table is cached on this machine.
func CachePath(name TableName) (string, error) {
	return xdg.CacheFile(filepath.Join("jump", string(name)+".csv.gz"))
}

// Retrieve downloads a metadata table into the local cache, verifying its
// sha256 checksum, and returns the cached path. A cached copy that already
// verifies is not downloaded again.
func Retrieve(ctx context.Context, name TableName) (string, error) {
	checksum, ok := tableChecksums[name]
	if !ok {
		return "", fmt.Errorf("unknown metadata table %q", name)
	}

	dst, err := CachePath(name)
	if err != nil {
		return "", pfx.Err(err)
	}

	client := &getter.Client{
		Ctx:  ctx,
		Src:  fmt.Sprintf("%s?checksum=sha256:%s", TableURL(name), checksum),
		Dst:  dst,
		Mode: getter.ClientModeFile,

		// The tables stay gzipped in the cache so the checksum keeps
		// matching the published artifact; decompression happens at load.
		Decompressors: map[string]getter.Decompressor{},
	}
	if err := client.Get(); err != nil {
		return "", pfx.Err(err)
	}

	if info, err := os.Stat(dst); err == nil {
		log.Printf("metadata table %s cached at %s (%s)", name, dst, humanize.Bytes(uint64(info.Size())))
	}

	return dst, nil
}

// VerifyChecksum reports whether the file at path matches the pinned
// checksum for the named table.
func VerifyChecksum(path string, name TableName) error {
	want, ok := tableChecksums[name]
	if !ok {
		return fmt.Errorf("unknown metadata table %q", name)
	}

	f, err := os.Open(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return pfx.Err(err)
	}

	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		return fmt.Errorf("%s: checksum mismatch: got %s, want %s", path, got, want)
	}

	return nil
}

// PlateRow is one row of the plate metadata table.
type PlateRow struct {
	Source    string `csv:"Metadata_Source"`
	Batch     string `csv:"Metadata_Batch"`
	Plate     string `csv:"Metadata_Plate"`
	PlateType string `csv:"Metadata_PlateType"`
}

// WellRow is one row of the well metadata table.
type WellRow struct {
	Source string `csv:"Metadata_Source"`
	Plate  string `csv:"Metadata_Plate"`
	Well   string `csv:"Metadata_Well"`
	JCP    string `csv:"Metadata_JCP2022"`
}

// LoadPlates decodes a cached plate table.
func LoadPlates(path string) ([]PlateRow, error) {
	var rows []PlateRow
	if err := loadTable(path, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// LoadWells decodes a cached well table.
func LoadWells(path string) ([]WellRow, error) {
	var rows []WellRow
	if err := loadTable(path, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

func loadTable(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	plain, err := jump.MaybeDecompress(f)
	if err != nil {
		return pfx.Err(err)
	}

	return pfx.Err(gocsv.Unmarshal(plain, out))
}
