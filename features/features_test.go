package features

import (
	"math"
	"reflect"
	"testing"
)

func TestParseFeature(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Key
	}{
		{"Nuclei_Texture_InfoMeas2_Mito_10_01", Key{"Nuclei", "Texture_InfoMeas2", "Mito"}},
		{"Cells_AreaShape_Eccentricity", Key{"Cells", "AreaShape_Eccentricity", ""}},
		{"Cytoplasm_Intensity_MeanIntensity_DNA", Key{"Cytoplasm", "Intensity_MeanIntensity", "DNA"}},
		{"Cells_Granularity_3_ER", Key{"Cells", "Granularity", "ER"}},
		{"Cells_Correlation_Correlation_DNA_AGP", Key{"Cells", "Correlation_Correlation_AGP", "DNA"}},
		{"SomethingUnrecognizable", Key{"Cells", "SomethingUnrecognizable", ""}},
	} {
		if got := ParseFeature(tc.name); got != tc.want {
			t.Errorf("ParseFeature(%q) = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestPValueIdenticalGroups(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}

	p, err := PValue(vals, vals)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-1) > 1e-12 {
		t.Fatalf("identical groups should give p=1, got %v", p)
	}
}

func TestPValueSeparatedGroups(t *testing.T) {
	a := []float64{0.00, 0.05, 0.10, 0.02, 0.08}
	b := []float64{10.00, 10.05, 10.10, 10.02, 10.08}

	p, err := PValue(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if p > 1e-6 {
		t.Fatalf("widely separated groups should be significant, got p=%v", p)
	}

	// Symmetry
	p2, err := PValue(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-p2) > 1e-12 {
		t.Fatalf("p-value should be symmetric: %v vs %v", p, p2)
	}
}

func TestPValueMonotoneInSeparation(t *testing.T) {
	control := []float64{0, 0.1, 0.2, 0.15, 0.05}
	near := []float64{0.3, 0.4, 0.5, 0.45, 0.35}
	far := []float64{3.0, 3.1, 3.2, 3.15, 3.05}

	pNear, err := PValue(near, control)
	if err != nil {
		t.Fatal(err)
	}
	pFar, err := PValue(far, control)
	if err != nil {
		t.Fatal(err)
	}

	if pFar >= pNear {
		t.Fatalf("greater separation should lower p: near=%v far=%v", pNear, pFar)
	}
}

func TestPValueRejectsTinyGroups(t *testing.T) {
	if _, err := PValue([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected an error for a single-observation group")
	}
}

func TestAdjustBH(t *testing.T) {
	got := AdjustBH([]float64{0.01, 0.04, 0.03, 0.005})
	want := []float64{0.02, 0.04, 0.04, 0.02}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("adjusted p-values got %v, want %v", got, want)
		}
	}
}

func TestAdjustBHCapsAtOne(t *testing.T) {
	got := AdjustBH([]float64{0.9, 0.95, 0.99})
	for _, p := range got {
		if p > 1 {
			t.Fatalf("adjusted p-value above 1: %v", got)
		}
	}
}

func TestMedianAndMAD(t *testing.T) {
	if got := Median([]float64{1, 2, 3, 4}); math.Abs(got-2.5) > 1e-12 {
		t.Fatalf("median got %v", got)
	}
	if got := MAD([]float64{1, 2, 3, 4, 5}); math.Abs(got-1) > 1e-12 {
		t.Fatalf("MAD got %v", got)
	}
	if got := Median(nil); !math.IsNaN(got) {
		t.Fatalf("median of nothing should be NaN, got %v", got)
	}
}

func TestNormalizeMAD(t *testing.T) {
	reference := []float64{1, 2, 3, 4, 5} // median 3, MAD 1
	got := NormalizeMAD([]float64{3, 4, 2}, reference)
	want := []float64{0, 1, -1}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSamplePerPlate(t *testing.T) {
	plates := []string{"P1", "P1", "P1", "P2", "P2", "P3"}

	got := SamplePerPlate(plates, 2, 42)
	if len(got) != 5 { // 2 + 2 + 1
		t.Fatalf("expected 5 sampled indices, got %v", got)
	}

	counts := map[string]int{}
	for _, i := range got {
		counts[plates[i]]++
	}
	for plate, n := range counts {
		if n > 2 {
			t.Fatalf("plate %s sampled %d times", plate, n)
		}
	}

	// Deterministic for a fixed seed
	again := SamplePerPlate(plates, 2, 42)
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("same seed gave different samples: %v vs %v", got, again)
	}

	// Zero means keep everything
	all := SamplePerPlate(plates, 0, 42)
	if len(all) != len(plates) {
		t.Fatalf("perPlate=0 should keep all rows, got %v", all)
	}
}

func TestEdgeIndices(t *testing.T) {
	mat := [][]float64{
		{5, 1, 4, 2, 3},
	}

	xs, ys := EdgeIndices(mat, 1)
	if !reflect.DeepEqual(xs, []int{0, 0}) {
		t.Fatalf("xs got %v", xs)
	}
	// Smallest is column 1 (value 1), largest is column 0 (value 5).
	if !reflect.DeepEqual(ys, []int{1, 0}) {
		t.Fatalf("ys got %v", ys)
	}
}

func TestEdgeIndicesNarrowRow(t *testing.T) {
	mat := [][]float64{{2, 1}}

	xs, ys := EdgeIndices(mat, 5)
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("narrow rows should yield every column once: xs=%v ys=%v", xs, ys)
	}
}
