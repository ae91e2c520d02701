package annotate

import "strings"

// Sources returns the built-in knowledge-graph exports and their
// id-extraction rules.
func Sources() []Source {
	return []Source{
		{
			Name:    "biokg",
			URL:     "https://github.com/dsi-bdi/biokg/releases/download/v1.0.0/biokg.zip",
			Member:  "biokg.links.tsv",
			Extract: extractBioKG,
		},
		{
			Name:    "hetionet",
			URL:     "https://github.com/hetio/hetionet/raw/master/hetnet/tsv/hetionet-v1.0-edges.sif.zip",
			Member:  "hetionet-v1.0-edges.sif",
			Extract: extractHetionet,
		},
		{
			Name:    "openbiolink",
			URL:     "https://zenodo.org/record/3834052/files/HQ_DIR.zip",
			Member:  "edges.csv",
			Extract: extractOpenBioLink,
		},
		{
			Name:    "dgidb",
			URL:     "https://www.dgidb.org/data/monthly_tsvs/2022-Feb/interactions.tsv.zip",
			Member:  "interactions.tsv",
			Extract: extractDGIdb,
		},
	}
}

// biokg edge lists carry DrugBank ids in the source column for drug
// relations, and in both columns for drug-drug interactions.
var biokgDrugRels = map[string]bool{
	"DPI":                      true,
	"DRUG_CARRIER":             true,
	"DRUG_DISEASE_ASSOCIATION": true,
	"DRUG_ENZYME":              true,
	"DRUG_PATHWAY_ASSOCIATION": true,
	"DRUG_TARGET":              true,
	"DRUG_TRANSPORTER":         true,
}

func extractBioKG(row Record) []ID {
	relType := row["rel_type"]

	if relType == "DDI" {
		return []ID{
			{Vocab: DrugBank, Value: row["source"]},
			{Vocab: DrugBank, Value: row["target"]},
		}
	}

	if biokgDrugRels[relType] {
		return []ID{{Vocab: DrugBank, Value: row["source"]}}
	}

	return nil
}

// hetionet compound nodes look like Compound::DB00122 and gene nodes like
// Gene::5468.
func extractHetionet(row Record) []ID {
	source, target := row["source"], row["target"]
	if !strings.HasPrefix(source, "Compound::") || !strings.HasPrefix(target, "Gene::") {
		return nil
	}

	return []ID{{Vocab: DrugBank, Value: strings.TrimPrefix(source, "Compound::")}}
}

// openbiolink edges carry PUBCHEM.COMPOUND:nnn and NCBIGENE:nnn ids.
func extractOpenBioLink(row Record) []ID {
	source, target := row["source"], row["target"]
	if !strings.HasPrefix(source, "PUBCHEM") || !strings.HasPrefix(target, "NCBIGENE") {
		return nil
	}

	parts := strings.SplitN(source, ":", 2)
	if len(parts) != 2 {
		return nil
	}

	return []ID{{Vocab: PubChem, Value: parts[1]}}
}

// dgidb interaction rows reference compounds as chembl:CHEMBLnnn.
func extractDGIdb(row Record) []ID {
	concept := row["drug_concept_id"]
	if !strings.HasPrefix(concept, "chembl:") {
		return nil
	}

	return []ID{{Vocab: ChEMBL, Value: strings.TrimPrefix(concept, "chembl:")}}
}
