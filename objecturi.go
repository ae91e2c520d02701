package jump

import (
	"fmt"
	"strings"
)

// ObjectURI identifies one object in a cloud bucket, parsed from an
// s3:// or gs:// style URI.
type ObjectURI struct {
	Scheme string // "s3" or "gs"
	Bucket string
	Key    string
}

// ParseObjectURI splits an s3:// or gs:// URI into its bucket and key.
func ParseObjectURI(uri string) (ObjectURI, error) {
	var scheme string
	switch {
	case strings.HasPrefix(uri, "s3://"):
		scheme = "s3"
	case strings.HasPrefix(uri, "gs://"):
		scheme = "gs"
	default:
		return ObjectURI{}, fmt.Errorf("%q is not an s3:// or gs:// URI", uri)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(uri, scheme+"://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return ObjectURI{}, fmt.Errorf("tried to split %q into a bucket and a key, but got %d parts: %v", uri, len(pathParts), pathParts)
	}

	return ObjectURI{Scheme: scheme, Bucket: pathParts[0], Key: pathParts[1]}, nil
}

// Append returns a copy of the URI with additional path elements joined onto
// the key, the way the load-data frames reference a directory plus a filename.
func (o ObjectURI) Append(elem ...string) ObjectURI {
	out := o
	out.Key = strings.TrimSuffix(o.Key, "/")
	for _, e := range elem {
		out.Key += "/" + strings.Trim(e, "/")
	}
	return out
}

func (o ObjectURI) String() string {
	return fmt.Sprintf("%s://%s/%s", o.Scheme, o.Bucket, o.Key)
}

// IsCloudPath reports whether path looks like a bucket URI rather than a
// local file path.
func IsCloudPath(path string) bool {
	return strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "gs://")
}
