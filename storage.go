package jump

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/carbocation/pfx"
)

// GalleryRegion is where AWS hosts the cellpainting-gallery open-data bucket.
const GalleryRegion = "us-east-1"

// StorageClients bundles the clients for the buckets we read from: the
// primary S3 gallery and any gs:// mirror. Either may be nil if that scheme
// is never used.
type StorageClients struct {
	S3 *s3.Client
	GS *storage.Client
}

// NewAnonymousS3Client builds an S3 client with unsigned requests, which is
// all the public gallery bucket permits or requires.
func NewAnonymousS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(GalleryRegion),
		config.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return s3.NewFromConfig(cfg), nil
}

// MaybeOpenFromCloud opens path for reading, where path may be an s3:// URI,
// a gs:// URI, or a local file. It returns the reader along with the object
// size when that is cheaply known.
func MaybeOpenFromCloud(ctx context.Context, path string, clients StorageClients) (ReaderAtCloser, int64, error) {
	if IsCloudPath(path) {
		uri, err := ParseObjectURI(path)
		if err != nil {
			return nil, 0, pfx.Err(err)
		}

		switch uri.Scheme {
		case "s3":
			if clients.S3 == nil {
				return nil, 0, fmt.Errorf("no S3 client configured for %s", path)
			}

			head, err := clients.S3.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(uri.Bucket),
				Key:    aws.String(uri.Key),
			})
			if err != nil {
				return nil, 0, pfx.Err(err)
			}

			return &S3ReaderAtCloser{Client: clients.S3, Context: ctx, URI: uri}, head.ContentLength, nil

		case "gs":
			if clients.GS == nil {
				return nil, 0, fmt.Errorf("no Google Storage client configured for %s", path)
			}

			handle := clients.GS.Bucket(uri.Bucket).Object(uri.Key)
			wrapped := &GSReaderAtCloser{ObjectHandle: handle, Context: ctx}

			attrs, err := handle.Attrs(ctx)
			if err != nil {
				return nil, 0, pfx.Err(err)
			}

			return wrapped, attrs.Size, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, fstat.Size(), nil
}
