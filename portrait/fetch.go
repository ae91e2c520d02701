package portrait

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/carbocation/pfx"
	"golang.org/x/image/tiff"

	jump "github.com/npeschke/jump-monorepo"
)

// DefaultCorrection selects the uncorrected images, which is what the
// gallery serves unless illumination-corrected data is requested.
const DefaultCorrection = "Orig"

// Channels lists the standard Cell Painting fluorescence channels.
var Channels = []string{"DNA", "Mito", "ER", "AGP", "RNA"}

// ImagePath builds the full bucket path of one channel's image from a
// location row: the PathName_<Correction><Channel> directory joined with the
// FileName_<Correction><Channel> entry.
func ImagePath(row LocationRow, channel, correction string) (string, error) {
	if correction == "" {
		correction = DefaultCorrection
	}
	suffix := correction + channel

	dir, ok := row["PathName_"+suffix]
	if !ok || dir == "" {
		return "", fmt.Errorf("location row has no PathName_%s column", suffix)
	}
	file, ok := row["FileName_"+suffix]
	if !ok || file == "" {
		return "", fmt.Errorf("location row has no FileName_%s column", suffix)
	}

	return strings.TrimSuffix(dir, "/") + "/" + file, nil
}

// FetchImage reads and decodes the image at path, which is usually an
// s3:// URI into the gallery. The gallery stores single-channel 16-bit
// TIFFs; PNG and JPEG are also understood for local files.
func FetchImage(ctx context.Context, path string, clients jump.StorageClients) (image.Image, error) {
	rdr, _, err := jump.MaybeOpenFromCloud(ctx, path, clients)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rdr.Close()

	imageBytes, err := ioutil.ReadAll(rdr)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	return DecodeImage(bytes.NewReader(imageBytes))
}

// DecodeImage decodes a microscopy image, trying TIFF first.
func DecodeImage(r io.ReadSeeker) (image.Image, error) {
	img, tiffErr := tiff.Decode(r)
	if tiffErr == nil {
		return img, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, pfx.Err(err)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("not a TIFF (%v) and not a known image format (%v)", tiffErr, err))
	}

	return img, nil
}

// Image fetches one channel of one imaging site: it reads the plate's
// location frame, finds the (well, site) row, and fetches that image from
// the bucket.
func Image(ctx context.Context, clients jump.StorageClients, source, batch, plate, well string, site int, channel, correction string) (image.Image, error) {
	frame, err := ReadLocationFrame(ctx, frameURI(source, batch, plate), clients)
	if err != nil {
		return nil, err
	}

	row, err := FilterWellSite(frame, well, site)
	if err != nil {
		return nil, err
	}

	path, err := ImagePath(row, channel, correction)
	if err != nil {
		return nil, err
	}

	return FetchImage(ctx, path, clients)
}
