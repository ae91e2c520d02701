// Package babel translates between the standard names of JUMP perturbations
// (gene symbols, compound names) and their JCP2022 reagent identifiers, and
// knows which reagents are plate controls. The mapping lives in a small
// SQLite database distributed alongside the metadata tables.
package babel

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// Entry is one reagent row in the mapping database.
type Entry struct {
	JCP         string         `db:"jcp_id"`
	StandardKey string         `db:"standard_key"`
	PlateType   string         `db:"plate_type"` // orf, crispr, or compound
	ControlType sql.NullString `db:"control_type"`
}

// Negcon is the control_type of the negative controls used for significance
// testing.
const Negcon = "negcon"

type DB struct {
	db *sqlx.DB
}

// Open opens (or creates) a mapping database at path.
func Open(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &DB{db: db}, nil
}

func (b *DB) Close() error {
	return b.db.Close()
}

// Init creates the mapping table if it does not exist yet.
func (b *DB) Init() error {
	_, err := b.db.Exec(`
CREATE TABLE IF NOT EXISTS babel (
	jcp_id TEXT NOT NULL,
	standard_key TEXT NOT NULL,
	plate_type TEXT NOT NULL,
	control_type TEXT,
	PRIMARY KEY (jcp_id, plate_type)
)`)

	return pfx.Err(err)
}

// Add inserts entries into the mapping table.
func (b *DB) Add(entries ...Entry) error {
	for _, e := range entries {
		if _, err := b.db.NamedExec(`
INSERT INTO babel (jcp_id, standard_key, plate_type, control_type)
VALUES (:jcp_id, :standard_key, :plate_type, :control_type)`, e); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

// StandardToJCP maps standard names onto JCP2022 identifiers. A name that
// matches multiple reagents yields multiple map entries (keyed by JCP).
func (b *DB) StandardToJCP(names ...string) (map[string]string, error) {
	entries, err := b.selectIn(`SELECT * FROM babel WHERE standard_key IN (?)`, names)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.JCP] = e.StandardKey
	}

	return out, nil
}

// JCPToStandard maps JCP2022 identifiers back onto standard names.
func (b *DB) JCPToStandard(jcps ...string) (map[string]string, error) {
	entries, err := b.selectIn(`SELECT * FROM babel WHERE jcp_id IN (?)`, jcps)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.JCP] = e.StandardKey
	}

	return out, nil
}

// JCPToExternalURL maps JCP2022 identifiers onto a link describing the
// perturbation: NCBI for genetic reagents, PubChem for compounds.
func (b *DB) JCPToExternalURL(jcps ...string) (map[string]string, error) {
	entries, err := b.selectIn(`SELECT * FROM babel WHERE jcp_id IN (?)`, jcps)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.JCP] = ExternalURL(e)
	}

	return out, nil
}

// NegconJCPs lists the JCP2022 identifiers of the negative control reagents.
func (b *DB) NegconJCPs() ([]string, error) {
	var jcps []string
	if err := b.db.Select(&jcps, `SELECT jcp_id FROM babel WHERE control_type = ?`, Negcon); err != nil {
		return nil, pfx.Err(err)
	}

	return jcps, nil
}

func (b *DB) selectIn(query string, args []string) ([]Entry, error) {
	if len(args) == 0 {
		return nil, nil
	}

	q, expanded, err := sqlx.In(query, args)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var entries []Entry
	if err := b.db.Select(&entries, b.db.Rebind(q), expanded...); err != nil {
		return nil, pfx.Err(err)
	}

	return entries, nil
}

// ExternalURL builds the resource link for one reagent based on its plate
// type.
func ExternalURL(e Entry) string {
	switch e.PlateType {
	case "compound":
		return fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/#query=%s", url.QueryEscape(e.StandardKey))
	default:
		return fmt.Sprintf("https://www.ncbi.nlm.nih.gov/gene/?term=%s", url.QueryEscape(e.StandardKey))
	}
}
