package jump

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ReaderAtCloser decorates one object in an S3 bucket with Read and
// ReadAt. The Cell Painting gallery is a public bucket, so the client is
// expected to be configured with anonymous credentials.
type S3ReaderAtCloser struct {
	Client  *s3.Client
	Context context.Context
	URI     ObjectURI
	body    io.ReadCloser
}

func (o *S3ReaderAtCloser) Read(p []byte) (n int, err error) {
	if o.body == nil {
		out, err := o.Client.GetObject(o.Context, &s3.GetObjectInput{
			Bucket: aws.String(o.URI.Bucket),
			Key:    aws.String(o.URI.Key),
		})
		if err != nil {
			return 0, err
		}
		o.body = out.Body
	}

	return o.body.Read(p)
}

// ReadAt satisfies io.ReaderAt via a ranged GET. Note that this is dependent
// upon making p a buffer of the desired length to be read.
func (o *S3ReaderAtCloser) ReadAt(p []byte, offset int64) (n int, err error) {
	out, err := o.Client.GetObject(o.Context, &s3.GetObjectInput{
		Bucket: aws.String(o.URI.Bucket),
		Key:    aws.String(o.URI.Key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+int64(len(p))-1)),
	})
	if err != nil {
		return 0, err
	}
	defer out.Body.Close()

	return io.ReadFull(out.Body, p)
}

func (o *S3ReaderAtCloser) Close() error {
	if o.body != nil {
		return o.body.Close()
	}

	return nil
}
