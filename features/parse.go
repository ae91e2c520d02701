// Package features turns image-based profiles into the ranked feature table
// that the dataset browser displays: it parses CellProfiler-style feature
// names, computes per-feature significance against negative controls, and
// selects the strongest perturbations per feature.
package features

import "strings"

// Key identifies a group of related feature columns.
type Key struct {
	Compartment string // Nuclei, Cytoplasm, or Cells
	Feature     string
	Channel     string // DNA, RNA, AGP, Mito, ER; empty for shape features
}

var compartments = map[string]bool{
	"Cells":     true,
	"Cytoplasm": true,
	"Nuclei":    true,
}

var channels = map[string]bool{
	"DNA":         true,
	"RNA":         true,
	"AGP":         true,
	"Mito":        true,
	"ER":          true,
	"Brightfield": true,
}

// ParseFeature splits a CellProfiler column name such as
// Nuclei_Texture_InfoMeas2_Mito_10_01 into its compartment, feature and
// channel parts. Numeric suffixes (texture scales, offsets) are dropped.
// Names with no recognizable compartment are attributed to Cells.
func ParseFeature(name string) Key {
	k := Key{Compartment: "Cells", Feature: name}

	parts := strings.Split(name, "_")
	if len(parts) == 0 {
		return k
	}

	rest := parts
	if compartments[parts[0]] {
		k.Compartment = parts[0]
		rest = parts[1:]
	}

	var featureParts []string
	for _, p := range rest {
		if channels[p] && k.Channel == "" {
			k.Channel = p
			continue
		}
		if isDigits(p) {
			continue
		}
		featureParts = append(featureParts, p)
	}

	if len(featureParts) > 0 {
		k.Feature = strings.Join(featureParts, "_")
	}

	return k
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
