package features

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

const profileCSV = `Metadata_Source,Metadata_Plate,Metadata_Well,Metadata_JCP2022,Metadata_pert_type,Cells_AreaShape_Area,Nuclei_Intensity_MeanIntensity_DNA
source_4,P1,A01,JCP2022_800001,trt,5.00,0.10
source_4,P1,A02,JCP2022_800001,trt,5.10,0.12
source_4,P1,A03,JCP2022_800001,trt,4.90,0.08
source_4,P1,B01,JCP2022_800002,trt,0.05,0.11
source_4,P1,B02,JCP2022_800002,trt,0.10,0.09
source_4,P1,B03,JCP2022_800002,trt,-0.05,0.10
source_4,P1,H01,JCP2022_033954,negcon,0.00,0.10
source_4,P1,H02,JCP2022_033954,negcon,0.10,0.11
source_4,P1,H03,JCP2022_033954,negcon,-0.10,0.09
source_4,P1,H04,JCP2022_033954,negcon,0.05,0.10
`

func TestLoadProfiles(t *testing.T) {
	p, err := LoadProfiles(strings.NewReader(profileCSV))
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Meta) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(p.Meta))
	}
	if len(p.Columns) != 2 {
		t.Fatalf("expected 2 feature columns, got %v", p.Columns)
	}
	if p.Meta[0].JCP != "JCP2022_800001" || p.Meta[0].Plate != "P1" || p.Meta[0].Well != "A01" {
		t.Fatalf("unexpected first row meta: %+v", p.Meta[0])
	}

	treatment, negcon := p.Split()
	if len(treatment) != 6 || len(negcon) != 4 {
		t.Fatalf("split got %d treatments, %d negcons", len(treatment), len(negcon))
	}
}

func TestLoadProfilesBlankValuesBecomeNaN(t *testing.T) {
	doc := "Metadata_Plate,Metadata_JCP2022,Metadata_pert_type,Cells_AreaShape_Area\nP1,J1,trt,\n"

	p, err := LoadProfiles(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(p.Values[0][0]) {
		t.Fatalf("blank value should parse as NaN, got %v", p.Values[0][0])
	}
}

func TestLoadProfilesMissingMetadata(t *testing.T) {
	doc := "Metadata_Plate,Cells_AreaShape_Area\nP1,1.0\n"

	if _, err := LoadProfiles(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for missing Metadata_JCP2022")
	}
}

type fakeTranslator struct{}

func (fakeTranslator) JCPToStandard(jcps ...string) (map[string]string, error) {
	out := map[string]string{}
	for _, j := range jcps {
		out[j] = "name-" + j
	}
	return out, nil
}

func (fakeTranslator) JCPToExternalURL(jcps ...string) (map[string]string, error) {
	out := map[string]string{}
	for _, j := range jcps {
		out[j] = "https://example.com/" + j
	}
	return out, nil
}

func TestBuildRankTable(t *testing.T) {
	p, err := LoadProfiles(strings.NewReader(profileCSV))
	if err != nil {
		t.Fatal(err)
	}

	rows, err := BuildRankTable(p, fakeTranslator{}, RankOptions{
		N:    1,
		Seed: 42,
		ImageURL: func(jcp string) string {
			return "https://img.example.com/" + jcp
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Two feature groups, two rankable perturbations each.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rank rows, got %d: %+v", len(rows), rows)
	}

	byGroup := map[Key][]RankRow{}
	for _, r := range rows {
		k := Key{r.Compartment, r.Feature, r.Channel}
		byGroup[k] = append(byGroup[k], r)
	}

	area := byGroup[Key{"Cells", "AreaShape_Area", ""}]
	if len(area) != 2 {
		t.Fatalf("expected 2 rows for the area group, got %+v", area)
	}

	// Rows within a group come back most-significant first, and the shifted
	// perturbation must beat the null one.
	if area[0].JCP != "JCP2022_800001" {
		t.Fatalf("expected the shifted perturbation first, got %+v", area)
	}
	if area[0].Statistic >= area[1].Statistic {
		t.Fatalf("expected ascending statistics, got %+v", area)
	}
	if area[0].Statistic > 0.01 {
		t.Fatalf("shifted perturbation should be significant, got %v", area[0].Statistic)
	}

	if math.Abs(area[0].Median-5.0) > 1e-9 {
		t.Fatalf("median of the shifted group should be 5.0, got %v", area[0].Median)
	}

	if area[0].GeneCompound != "name-JCP2022_800001" {
		t.Fatalf("translator name not applied: %+v", area[0])
	}
	if area[0].Resources != "https://example.com/JCP2022_800001" {
		t.Fatalf("translator link not applied: %+v", area[0])
	}
	if area[0].MatchExample != "https://img.example.com/JCP2022_800001" {
		t.Fatalf("image URL not applied: %+v", area[0])
	}
}

func TestBuildRankTableRequiresControls(t *testing.T) {
	doc := "Metadata_Plate,Metadata_JCP2022,Metadata_pert_type,Cells_AreaShape_Area\nP1,J1,trt,1.0\nP1,J1,trt,1.1\n"

	p, err := LoadProfiles(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := BuildRankTable(p, nil, RankOptions{N: 1}); err == nil {
		t.Fatal("expected an error without negative controls")
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []RankRow{{Compartment: "Nuclei", Feature: "Texture", JCP: "J1"}}); err != nil {
		t.Fatal(err)
	}

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	want := "Compartment,Feature,Channel,Statistic,Gene/Compound,Match Example,Median,JCP2022,Resources"
	if strings.TrimSpace(header) != want {
		t.Fatalf("header\ngot:  %s\nwant: %s", header, want)
	}
}
