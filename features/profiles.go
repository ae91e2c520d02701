package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	jump "github.com/npeschke/jump-monorepo"
)

// RowMeta is the metadata carried alongside one profile row.
type RowMeta struct {
	JCP      string
	Source   string
	Plate    string
	Well     string
	PertType string
}

// Profiles is an image-based profile matrix: one row per well-level profile,
// one column per feature.
type Profiles struct {
	Meta    []RowMeta
	Columns []string
	Values  [][]float64
}

const (
	colJCP      = "Metadata_JCP2022"
	colSource   = "Metadata_Source"
	colPlate    = "Metadata_Plate"
	colWell     = "Metadata_Well"
	colPertType = "Metadata_pert_type"
)

// LoadProfiles reads a profiles table from CSV. The reader may be gzipped;
// the delimiter is sniffed. Metadata_* columns become RowMeta; all other
// columns are parsed as feature values, with blanks becoming NaN.
func LoadProfiles(r io.Reader) (*Profiles, error) {
	plain, err := jump.MaybeDecompress(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim, buffered, err := jump.PeekDelimiter(plain, 4096)
	if err != nil {
		return nil, pfx.Err(err)
	}

	c := csv.NewReader(buffered)
	c.Comma = delim
	c.ReuseRecord = false

	header, err := c.Read()
	if err != nil {
		return nil, pfx.Err(err)
	}

	metaIdx := map[string]int{}
	var featureCols []string
	var featureIdx []int
	for i, name := range header {
		if strings.HasPrefix(name, "Metadata_") {
			metaIdx[name] = i
			continue
		}
		featureCols = append(featureCols, name)
		featureIdx = append(featureIdx, i)
	}

	for _, required := range []string{colJCP, colPlate, colPertType} {
		if _, ok := metaIdx[required]; !ok {
			return nil, fmt.Errorf("profiles table is missing the %s column", required)
		}
	}

	p := &Profiles{Columns: featureCols}
	for {
		record, err := c.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		meta := RowMeta{
			JCP:      record[metaIdx[colJCP]],
			Plate:    record[metaIdx[colPlate]],
			PertType: record[metaIdx[colPertType]],
		}
		if i, ok := metaIdx[colSource]; ok {
			meta.Source = record[i]
		}
		if i, ok := metaIdx[colWell]; ok {
			meta.Well = record[i]
		}

		vals := make([]float64, len(featureIdx))
		for out, in := range featureIdx {
			if record[in] == "" {
				vals[out] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(record[in], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %v", len(p.Values)+2, featureCols[out], err)
			}
			vals[out] = v
		}

		p.Meta = append(p.Meta, meta)
		p.Values = append(p.Values, vals)
	}

	return p, nil
}

// Split partitions the row indices into treatments and negative controls.
func (p *Profiles) Split() (treatment, negcon []int) {
	for i, m := range p.Meta {
		if m.PertType == "negcon" {
			negcon = append(negcon, i)
		} else {
			treatment = append(treatment, i)
		}
	}

	return treatment, negcon
}
