// Package datadict holds the data dictionary that describes the tables the
// JUMP tooling publishes: per-database provenance and, for each table, a
// human-readable description of every column. The dictionary is consumed by
// the dataset browser, which renders columns in the order the document lists
// them.
package datadict

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"
)

//go:embed data.json
var standardJSON []byte

// Dictionary is the root of the data dictionary document. Unknown JSON keys
// are tolerated anywhere in the document.
type Dictionary struct {
	Databases map[string]Database `json:"databases"`
}

// Database is one named source of tabular data.
type Database struct {
	Source    string           `json:"source"`
	SourceURL string           `json:"source_url"`
	Tables    map[string]Table `json:"tables"`
}

// Table describes one published table.
type Table struct {
	Title           string     `json:"title"`
	DescriptionHTML string     `json:"description_html"`
	Columns         *ColumnSet `json:"columns"`
}

// Load parses a dictionary document.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{}
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, pfx.Err(err)
	}

	return d, nil
}

// LoadFile parses the dictionary document at path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return Load(f)
}

// Standard returns the dictionary for the feature ranking table, as shipped
// with this module.
func Standard() (*Dictionary, error) {
	return Load(bytes.NewReader(standardJSON))
}

// Validate checks the structural rules the dataset browser relies on: every
// table carries a non-empty title and a non-empty column mapping, and every
// column has both a name and a description.
func (d *Dictionary) Validate() error {
	if len(d.Databases) == 0 {
		return fmt.Errorf("dictionary lists no databases")
	}

	for dbName, db := range d.Databases {
		if len(db.Tables) == 0 {
			return fmt.Errorf("database %q lists no tables", dbName)
		}

		for tableName, table := range db.Tables {
			if table.Title == "" {
				return fmt.Errorf("table %q in database %q has an empty title", tableName, dbName)
			}
			if table.Columns.Len() == 0 {
				return fmt.Errorf("table %q in database %q has no columns", tableName, dbName)
			}

			for _, name := range table.Columns.Names() {
				if name == "" {
					return fmt.Errorf("table %q in database %q has a column with an empty name", tableName, dbName)
				}
				if desc, _ := table.Columns.Get(name); desc == "" {
					return fmt.Errorf("column %q of table %q in database %q has an empty description", name, tableName, dbName)
				}
			}
		}
	}

	return nil
}
