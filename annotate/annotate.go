// Package annotate collects external compound identifiers (DrugBank,
// ChEMBL, PubChem) out of public knowledge-graph exports, producing one
// de-duplicated id list per vocabulary. Those lists seed the compound
// annotation joins against the JUMP perturbation tables.
package annotate

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/carbocation/pfx"
	getter "github.com/hashicorp/go-getter"
	"github.com/krolaw/zipstream"

	jump "github.com/npeschke/jump-monorepo"
)

// Vocab is an external compound-id vocabulary.
type Vocab string

const (
	DrugBank Vocab = "drugbank"
	ChEMBL   Vocab = "chembl"
	PubChem  Vocab = "pubchem"
)

// ID is one external identifier extracted from a knowledge graph.
type ID struct {
	Vocab Vocab
	Value string
}

// Record is one edge-list row keyed by the export's header.
type Record map[string]string

// Source is one downloadable knowledge-graph export.
type Source struct {
	Name string
	URL  string
	// Member selects the file inside the zip holding the edge list; empty
	// matches the first .csv/.tsv member.
	Member string
	// Extract pulls the external ids out of one edge-list row.
	Extract func(Record) []ID
}

// CachePath returns where a source's archive is cached locally.
func CachePath(src Source) (string, error) {
	return xdg.CacheFile(filepath.Join("jump", "annotations", src.Name+".zip"))
}

// Retrieve downloads a source archive into the cache unless it is already
// present, returning the local path.
func Retrieve(ctx context.Context, src Source) (string, error) {
	dst, err := CachePath(src)
	if err != nil {
		return "", pfx.Err(err)
	}

	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	client := &getter.Client{
		Ctx:           ctx,
		Src:           src.URL,
		Dst:           dst,
		Mode:          getter.ClientModeFile,
		Decompressors: map[string]getter.Decompressor{},
	}
	if err := client.Get(); err != nil {
		return "", pfx.Err(err)
	}

	return dst, nil
}

// CollectFromZip streams a zip archive, finds the source's edge-list
// member, and extracts every external id it mentions.
func CollectFromZip(r io.Reader, src Source) ([]ID, error) {
	zr := zipstream.NewReader(r)

	for {
		header, err := zr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if !memberMatches(header, src.Member) {
			continue
		}

		return collectFromEdgeList(zr, src)
	}

	return nil, fmt.Errorf("%s: no edge-list member found in archive", src.Name)
}

func memberMatches(header *zip.FileHeader, member string) bool {
	if member != "" {
		return header.Name == member || strings.HasSuffix(header.Name, "/"+member)
	}

	return strings.HasSuffix(header.Name, ".csv") || strings.HasSuffix(header.Name, ".tsv")
}

func collectFromEdgeList(r io.Reader, src Source) ([]ID, error) {
	delim, buffered, err := jump.PeekDelimiter(r, 4096)
	if err != nil {
		return nil, pfx.Err(err)
	}

	c := csv.NewReader(buffered)
	c.Comma = delim
	c.LazyQuotes = true

	header, err := c.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", src.Name, err))
	}

	var ids []ID
	for {
		record, err := c.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", src.Name, err))
		}

		row := make(Record, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		ids = append(ids, src.Extract(row)...)
	}

	return ids, nil
}

// Dedupe sorts and de-duplicates ids per vocabulary.
func Dedupe(ids []ID) map[Vocab][]string {
	seen := map[Vocab]map[string]bool{}
	for _, id := range ids {
		if id.Value == "" {
			continue
		}
		if seen[id.Vocab] == nil {
			seen[id.Vocab] = map[string]bool{}
		}
		seen[id.Vocab][id.Value] = true
	}

	out := map[Vocab][]string{}
	for vocab, values := range seen {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		out[vocab] = list
	}

	return out
}

// WriteIDLists writes one <vocab>.txt per vocabulary under dir.
func WriteIDLists(dir string, byVocab map[Vocab][]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pfx.Err(err)
	}

	for vocab, values := range byVocab {
		path := filepath.Join(dir, string(vocab)+".txt")
		if err := os.WriteFile(path, []byte(strings.Join(values, "\n")+"\n"), 0o644); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

// Collect retrieves every source, extracts its ids, and writes the merged
// id lists under outputDir.
func Collect(ctx context.Context, sources []Source, outputDir string) error {
	var all []ID
	for _, src := range sources {
		path, err := Retrieve(ctx, src)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return pfx.Err(err)
		}

		ids, err := CollectFromZip(f, src)
		f.Close()
		if err != nil {
			return err
		}

		all = append(all, ids...)
	}

	return WriteIDLists(outputDir, Dedupe(all))
}
