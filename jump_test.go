package jump

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		uri     string
		scheme  string
		bucket  string
		key     string
		wantErr bool
	}{
		{uri: "s3://cellpainting-gallery/cpg0016-jump/source_4", scheme: "s3", bucket: "cellpainting-gallery", key: "cpg0016-jump/source_4"},
		{uri: "gs://mirror-bucket/a/b/c.csv.gz", scheme: "gs", bucket: "mirror-bucket", key: "a/b/c.csv.gz"},
		{uri: "s3://bucketonly", wantErr: true},
		{uri: "s3://", wantErr: true},
		{uri: "/local/path.csv", wantErr: true},
		{uri: "http://example.com/x", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseObjectURI(test.uri)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseObjectURI(%q): expected an error", test.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseObjectURI(%q): %v", test.uri, err)
			continue
		}

		if got.Scheme != test.scheme || got.Bucket != test.bucket || got.Key != test.key {
			t.Errorf("ParseObjectURI(%q) = %+v", test.uri, got)
		}
	}
}

func TestObjectURIAppendAndString(t *testing.T) {
	base := ObjectURI{Scheme: "s3", Bucket: "cellpainting-gallery", Key: "cpg0016-jump/source_4/"}

	got := base.Append("images", "plate_1/").String()
	want := "s3://cellpainting-gallery/cpg0016-jump/source_4/images/plate_1"
	if got != want {
		t.Errorf("Append produced %q, expected %q", got, want)
	}

	// Appending must not mutate the receiver
	if base.Key != "cpg0016-jump/source_4/" {
		t.Errorf("Append mutated the receiver key to %q", base.Key)
	}
}

func TestIsCloudPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"s3://bucket/key", true},
		{"gs://bucket/key", true},
		{"/tmp/file.csv", false},
		{"relative/file.csv", false},
	}

	for _, test := range tests {
		if got := IsCloudPath(test.path); got != test.want {
			t.Errorf("IsCloudPath(%q) = %v, expected %v", test.path, got, test.want)
		}
	}
}

func TestDetectCompression(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write([]byte("a,b,c\n1,2,3\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"gzip", gz.Bytes(), CompressionGzip},
		{"plain", []byte("a,b,c\n1,2,3\n"), CompressionNone},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x00}, CompressionZip},
		{"bzip2", []byte{0x42, 0x5a, 0x68, 0x39, 0x00, 0x00}, CompressionBZip2},
	}

	for _, test := range tests {
		got, err := DetectCompression(bufio.NewReader(bytes.NewReader(test.data)))
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: detected %v, expected %v", test.name, got, test.want)
		}
	}
}

func TestMaybeDecompressGzip(t *testing.T) {
	const body = "Metadata_Well,Metadata_Site\nA01,1\n"

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := MaybeDecompress(&gz)
	if err != nil {
		t.Fatal(err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != body {
		t.Errorf("decompressed to %q, expected %q", out, body)
	}
}

func TestMaybeDecompressPassthrough(t *testing.T) {
	const body = "no compression here\n"

	r, err := MaybeDecompress(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != body {
		t.Errorf("passthrough read %q, expected %q", out, body)
	}
}

func TestPeekDelimiter(t *testing.T) {
	tests := []struct {
		name string
		body string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n4,5,6\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n4\t5\t6\n", '\t'},
	}

	for _, test := range tests {
		delim, r, err := PeekDelimiter(strings.NewReader(test.body), 1024)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if delim != test.want {
			t.Errorf("%s: sniffed %q, expected %q", test.name, delim, test.want)
		}

		// The returned reader must replay the sampled bytes.
		out, err := io.ReadAll(r)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if string(out) != test.body {
			t.Errorf("%s: rewound reader produced %q", test.name, out)
		}
	}
}
