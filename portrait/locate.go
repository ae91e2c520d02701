package portrait

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"

	jump "github.com/npeschke/jump-monorepo"
)

// NameTranslator resolves standard perturbation names to JCP2022 IDs and
// lists the negative-control reagents. babel.DB satisfies this.
type NameTranslator interface {
	StandardToJCP(names ...string) (map[string]string, error)
	NegconJCPs() ([]string, error)
}

// ControlKey is the StandardKey attached to control wells pulled in
// alongside an item's own wells.
const ControlKey = "control"

// WellLocation places one well of interest in the dataset.
type WellLocation struct {
	Source      string
	Batch       string
	Plate       string
	Well        string
	JCP         string
	StandardKey string
}

// ItemLocations finds every well in which the named item was perturbed. When
// controls is set, the negative-control wells on the same plates are
// included, tagged with ControlKey. The well and plate tables come from the
// cached metadata (LoadWells, LoadPlates).
func ItemLocations(item string, wells []WellRow, plates []PlateRow, tr NameTranslator, controls bool) ([]WellLocation, error) {
	jcpToName, err := tr.StandardToJCP(item)
	if err != nil {
		return nil, err
	}
	if len(jcpToName) == 0 {
		return nil, fmt.Errorf("no JCP2022 reagent found for %q", item)
	}

	// Plate metadata indexed by (source, plate) carries the batch names.
	batches := map[[2]string]string{}
	for _, p := range plates {
		batches[[2]string{p.Source, p.Plate}] = p.Batch
	}

	var found []WellLocation
	itemPlates := map[[2]string]bool{}
	for _, w := range wells {
		if _, ok := jcpToName[w.JCP]; !ok {
			continue
		}

		found = append(found, WellLocation{
			Source:      w.Source,
			Batch:       batches[[2]string{w.Source, w.Plate}],
			Plate:       w.Plate,
			Well:        w.Well,
			JCP:         w.JCP,
			StandardKey: item,
		})
		itemPlates[[2]string{w.Source, w.Plate}] = true
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("item %q maps to %d reagents but appears in no wells", item, len(jcpToName))
	}

	if controls {
		negcons, err := tr.NegconJCPs()
		if err != nil {
			return nil, err
		}
		negconSet := map[string]bool{}
		for _, j := range negcons {
			negconSet[j] = true
		}

		for _, w := range wells {
			if !itemPlates[[2]string{w.Source, w.Plate}] || !negconSet[w.JCP] {
				continue
			}

			found = append(found, WellLocation{
				Source:      w.Source,
				Batch:       batches[[2]string{w.Source, w.Plate}],
				Plate:       w.Plate,
				Well:        w.Well,
				JCP:         w.JCP,
				StandardKey: ControlKey,
			})
		}
	}

	return found, nil
}

// frameURI is swapped out by tests that serve location frames from disk.
var frameURI = LoadDataURI

// WellImages pairs a well of interest with one of its load-data rows, which
// carries the bucket paths of every channel imaged at that site.
type WellImages struct {
	WellLocation
	Row LocationRow
}

// ImageLocations resolves the load-data rows for a set of well locations.
// Each distinct plate's frame is read once; the reads run concurrently,
// bounded by concurrency (<=0 chooses a CPU-based default). Plates whose
// frames cannot be read are logged and skipped.
func ImageLocations(ctx context.Context, clients jump.StorageClients, locs []WellLocation, concurrency int) []WellImages {
	if concurrency <= 0 {
		concurrency = 4 * runtime.NumCPU()
	}

	type plateKey struct {
		Source, Batch, Plate string
	}

	wellsByPlate := map[plateKey][]WellLocation{}
	for _, loc := range locs {
		k := plateKey{loc.Source, loc.Batch, loc.Plate}
		wellsByPlate[k] = append(wellsByPlate[k], loc)
	}

	plateKeys := make([]plateKey, 0, len(wellsByPlate))
	for k := range wellsByPlate {
		plateKeys = append(plateKeys, k)
	}
	sort.Slice(plateKeys, func(i, j int) bool {
		a, b := plateKeys[i], plateKeys[j]
		return a.Source+a.Batch+a.Plate < b.Source+b.Batch+b.Plate
	})

	results := make(chan []WellImages, concurrency)
	doneListening := make(chan struct{})

	var out []WellImages
	go func() {
		defer func() { doneListening <- struct{}{} }()
		for res := range results {
			out = append(out, res...)
		}
	}()

	semaphore := make(chan struct{}, concurrency)

	for _, k := range plateKeys {
		// Will block after `concurrency` simultaneous goroutines are running
		semaphore <- struct{}{}

		go func(k plateKey) {
			// Be sure to permit unblocking once we finish
			defer func() { <-semaphore }()

			frame, err := ReadLocationFrame(ctx, frameURI(k.Source, k.Batch, k.Plate), clients)
			if err != nil {
				log.Println("skipping plate", k.Plate, ":", err)
				return
			}

			var matched []WellImages
			for _, loc := range wellsByPlate[k] {
				for _, row := range FilterWell(frame, loc.Well) {
					matched = append(matched, WellImages{WellLocation: loc, Row: row})
				}
			}

			results <- matched
		}(k)
	}

	// Make sure we finish all the reads before we return, otherwise we'd
	// lose the last `concurrency` plates.
	for i := 0; i < cap(semaphore); i++ {
		semaphore <- struct{}{}
	}

	close(results)
	<-doneListening

	return out
}
