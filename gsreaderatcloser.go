package jump

import (
	"context"

	"cloud.google.com/go/storage"
)

// GSReaderAtCloser decorates a Google Storage object handle with Read and
// ReadAt, for buckets that mirror the Cell Painting gallery on GCS.
type GSReaderAtCloser struct {
	*storage.ObjectHandle
	Context context.Context
	Closer  *func() error
	reader  *storage.Reader
}

func (o *GSReaderAtCloser) Read(p []byte) (n int, err error) {
	if o.reader == nil {
		o.reader, err = o.NewReader(o.Context)
		if err != nil {
			return 0, err
		}
	}

	return o.reader.Read(p)
}

// ReadAt satisfies io.ReaderAt. Note that this is dependent upon making p a
// buffer of the desired length to be read by NewRangeReader.
func (o *GSReaderAtCloser) ReadAt(p []byte, offset int64) (n int, err error) {
	rdr, err := o.NewRangeReader(o.Context, offset, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	return rdr.Read(p)
}

// Satisfies io.Closer. If o.Closer is not set, this is a nop.
func (o *GSReaderAtCloser) Close() error {
	if o.Closer != nil {
		return (*o.Closer)()
	}

	return nil
}
