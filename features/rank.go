package features

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Translator resolves JCP2022 identifiers to display names and external
// resource links. babel.DB satisfies this.
type Translator interface {
	JCPToStandard(jcps ...string) (map[string]string, error)
	JCPToExternalURL(jcps ...string) (map[string]string, error)
}

// RankRow is one row of the explorable feature-ranking table. The column
// set and its order match the data dictionary.
type RankRow struct {
	Compartment  string  `csv:"Compartment"`
	Feature      string  `csv:"Feature"`
	Channel      string  `csv:"Channel"`
	Statistic    float64 `csv:"Statistic"`
	GeneCompound string  `csv:"Gene/Compound"`
	MatchExample string  `csv:"Match Example"`
	Median       float64 `csv:"Median"`
	JCP          string  `csv:"JCP2022"`
	Resources    string  `csv:"Resources"`
}

type RankOptions struct {
	// N is the number of top and bottom perturbations kept per feature.
	N int
	// NegconsPerPlate bounds how many negative controls are sampled from
	// each plate for the significance tests. Zero keeps them all.
	NegconsPerPlate int
	Seed            int64
	// ImageURL, when set, supplies the example-image link for a JCP ID.
	ImageURL func(jcp string) string
}

// BuildRankTable runs the full ranking pipeline over a profile matrix:
// collapse feature columns into (Compartment, Feature, Channel) groups,
// test each perturbation's group values against per-plate-sampled negative
// controls, correct the p-values per group (Benjamini-Hochberg), and keep
// the N most and least significant perturbations for every group.
func BuildRankTable(p *Profiles, translator Translator, opts RankOptions) ([]RankRow, error) {
	if opts.N <= 0 {
		opts.N = 50
	}

	treatmentRows, negconRows := p.Split()
	if len(treatmentRows) == 0 {
		return nil, fmt.Errorf("profiles contain no treatment rows")
	}
	if len(negconRows) == 0 {
		return nil, fmt.Errorf("profiles contain no negative control rows")
	}

	keys, groupCols := groupColumns(p.Columns)

	// Collapse each row's feature columns into per-group medians.
	grouped := make([][]float64, len(p.Values))
	for i, row := range p.Values {
		grouped[i] = make([]float64, len(keys))
		for g, cols := range groupCols {
			vals := make([]float64, 0, len(cols))
			for _, c := range cols {
				if !math.IsNaN(row[c]) {
					vals = append(vals, row[c])
				}
			}
			grouped[i][g] = Median(vals)
		}
	}

	// Bound the controls per plate once; each perturbation then uses the
	// sampled controls that share its plates.
	negconPlates := make([]string, len(negconRows))
	for i, r := range negconRows {
		negconPlates[i] = p.Meta[r].Plate
	}
	sampledNegcons := make([]int, 0, len(negconRows))
	for _, i := range SamplePerPlate(negconPlates, opts.NegconsPerPlate, opts.Seed) {
		sampledNegcons = append(sampledNegcons, negconRows[i])
	}

	jcps, jcpRows := groupByJCP(p, treatmentRows)

	// Singleton perturbations cannot be tested.
	kept := jcps[:0]
	for _, jcp := range jcps {
		if len(jcpRows[jcp]) >= 2 {
			kept = append(kept, jcp)
		}
	}
	jcps = kept
	if len(jcps) == 0 {
		return nil, fmt.Errorf("no perturbation has at least 2 replicate profiles")
	}

	// pvals and medians are [group][jcp].
	pvals := make([][]float64, len(keys))
	medians := make([][]float64, len(keys))
	for g := range keys {
		pvals[g] = make([]float64, len(jcps))
		medians[g] = make([]float64, len(jcps))
	}

	for j, jcp := range jcps {
		rows := jcpRows[jcp]

		plates := map[string]bool{}
		for _, r := range rows {
			plates[p.Meta[r].Plate] = true
		}

		var controls []int
		for _, r := range sampledNegcons {
			if plates[p.Meta[r].Plate] {
				controls = append(controls, r)
			}
		}
		if len(controls) < 2 {
			// Fall back to the full sampled control set when this
			// perturbation's plates carry too few controls.
			controls = sampledNegcons
		}

		for g := range keys {
			treatVals := pluck(grouped, rows, g)
			controlVals := pluck(grouped, controls, g)

			pv, err := PValue(treatVals, controlVals)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s, group %v: %w", jcp, keys[g], err))
			}
			pvals[g][j] = pv
			medians[g][j] = Median(treatVals)
		}
	}

	for g := range keys {
		pvals[g] = AdjustBH(pvals[g])
	}

	xs, ys := EdgeIndices(pvals, opts.N)

	names := map[string]string{}
	links := map[string]string{}
	if translator != nil {
		var err error
		if names, err = translator.JCPToStandard(jcps...); err != nil {
			return nil, pfx.Err(err)
		}
		if links, err = translator.JCPToExternalURL(jcps...); err != nil {
			return nil, pfx.Err(err)
		}
	}

	out := make([]RankRow, 0, len(xs))
	for i := range xs {
		g, j := xs[i], ys[i]
		jcp := jcps[j]

		row := RankRow{
			Compartment: keys[g].Compartment,
			Feature:     keys[g].Feature,
			Channel:     keys[g].Channel,
			Statistic:   pvals[g][j],
			Median:      medians[g][j],
			JCP:         jcp,
		}
		if name, ok := names[jcp]; ok {
			row.GeneCompound = name
		}
		if link, ok := links[jcp]; ok {
			row.Resources = link
		}
		if opts.ImageURL != nil {
			row.MatchExample = opts.ImageURL(jcp)
		}

		out = append(out, row)
	}

	return out, nil
}

// WriteCSV writes the rank table with the dictionary's column headers.
func WriteCSV(w io.Writer, rows []RankRow) error {
	return pfx.Err(gocsv.Marshal(&rows, w))
}

func groupColumns(columns []string) ([]Key, [][]int) {
	var keys []Key
	var cols [][]int
	seen := map[Key]int{}

	for i, name := range columns {
		k := ParseFeature(name)
		g, ok := seen[k]
		if !ok {
			g = len(keys)
			seen[k] = g
			keys = append(keys, k)
			cols = append(cols, nil)
		}
		cols[g] = append(cols[g], i)
	}

	return keys, cols
}

func groupByJCP(p *Profiles, rows []int) ([]string, map[string][]int) {
	byJCP := map[string][]int{}
	for _, r := range rows {
		byJCP[p.Meta[r].JCP] = append(byJCP[p.Meta[r].JCP], r)
	}

	jcps := make([]string, 0, len(byJCP))
	for jcp := range byJCP {
		jcps = append(jcps, jcp)
	}
	sort.Strings(jcps)

	return jcps, byJCP
}

func pluck(mat [][]float64, rows []int, col int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, mat[r][col])
	}

	return out
}
