package babel

import (
	"database/sql"
	"reflect"
	"sort"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	b, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })

	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	if err := b.Add(
		Entry{JCP: "JCP2022_804622", StandardKey: "MYT1", PlateType: "orf"},
		Entry{JCP: "JCP2022_800002", StandardKey: "TP53", PlateType: "crispr"},
		Entry{JCP: "JCP2022_033924", StandardKey: "aspirin", PlateType: "compound"},
		Entry{JCP: "JCP2022_800001", StandardKey: "non-targeting", PlateType: "crispr", ControlType: sql.NullString{String: Negcon, Valid: true}},
		Entry{JCP: "JCP2022_033954", StandardKey: "DMSO", PlateType: "compound", ControlType: sql.NullString{String: Negcon, Valid: true}},
	); err != nil {
		t.Fatal(err)
	}

	return b
}

func TestStandardToJCP(t *testing.T) {
	b := testDB(t)

	got, err := b.StandardToJCP("MYT1", "aspirin")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"JCP2022_804622": "MYT1",
		"JCP2022_033924": "aspirin",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJCPToStandard(t *testing.T) {
	b := testDB(t)

	got, err := b.JCPToStandard("JCP2022_800002")
	if err != nil {
		t.Fatal(err)
	}

	if got["JCP2022_800002"] != "TP53" {
		t.Fatalf("got %v", got)
	}
}

func TestNegconJCPs(t *testing.T) {
	b := testDB(t)

	got, err := b.NegconJCPs()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)

	want := []string{"JCP2022_033954", "JCP2022_800001"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExternalURL(t *testing.T) {
	b := testDB(t)

	got, err := b.JCPToExternalURL("JCP2022_804622", "JCP2022_033924")
	if err != nil {
		t.Fatal(err)
	}

	if got["JCP2022_804622"] != "https://www.ncbi.nlm.nih.gov/gene/?term=MYT1" {
		t.Fatalf("gene URL: %q", got["JCP2022_804622"])
	}
	if got["JCP2022_033924"] != "https://pubchem.ncbi.nlm.nih.gov/#query=aspirin" {
		t.Fatalf("compound URL: %q", got["JCP2022_033924"])
	}
}

func TestEmptyQueries(t *testing.T) {
	b := testDB(t)

	got, err := b.StandardToJCP()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}
