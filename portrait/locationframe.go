package portrait

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"

	jump "github.com/npeschke/jump-monorepo"
)

// loadDataFormat is where each plate's load-data frame lives in the gallery.
const loadDataFormat = "s3://cellpainting-gallery/cpg0016-jump/%s/workspace/load_data_csv/%s/%s/load_data_with_illum.csv.gz"

// LoadDataURI returns the location-frame URI for one plate.
func LoadDataURI(source, batch, plate string) string {
	return fmt.Sprintf(loadDataFormat, source, batch, plate)
}

// LocationRow is one row of a load-data frame: the metadata of a single
// imaging site plus the PathName_*/FileName_* columns that place each
// channel's image in the bucket.
type LocationRow map[string]string

func (r LocationRow) Well() string { return r["Metadata_Well"] }
func (r LocationRow) Site() string { return r["Metadata_Site"] }

// ReadLocationFrame reads and decodes a load-data frame, which may live in
// the bucket or on local disk, gzipped or not.
func ReadLocationFrame(ctx context.Context, uri string, clients jump.StorageClients) ([]LocationRow, error) {
	rdr, _, err := jump.MaybeOpenFromCloud(ctx, uri, clients)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rdr.Close()

	plain, err := jump.MaybeDecompress(rdr)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim, buffered, err := jump.PeekDelimiter(plain, 4096)
	if err != nil {
		return nil, pfx.Err(err)
	}

	c := csv.NewReader(buffered)
	c.Comma = delim

	header, err := c.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", uri, err))
	}

	var rows []LocationRow
	for {
		record, err := c.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", uri, err))
		}

		row := make(LocationRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FilterWell returns the rows imaging one well.
func FilterWell(rows []LocationRow, well string) []LocationRow {
	var out []LocationRow
	for _, row := range rows {
		if row.Well() == well {
			out = append(out, row)
		}
	}

	return out
}

// FilterWellSite returns the single row for one imaging site of one well,
// and errors when the frame does not contain exactly one.
func FilterWellSite(rows []LocationRow, well string, site int) (LocationRow, error) {
	siteStr := strconv.Itoa(site)

	var found []LocationRow
	for _, row := range rows {
		if row.Well() == well && row.Site() == siteStr {
			found = append(found, row)
		}
	}

	if len(found) != 1 {
		return nil, fmt.Errorf("expected exactly 1 site for well %s site %d, found %d", well, site, len(found))
	}

	return found[0], nil
}
