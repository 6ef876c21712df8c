package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
)

func tree() fstest.MapFS {
	return fstest.MapFS{
		"global/config.json":             {Data: []byte(`{"magazineName":"M"}`)},
		"content/2025-10/config.json":    {Data: []byte(`{}`)},
		"content/2025-11/config.json":    {Data: []byte(`{}`)},
		"content/2025-11/columns/a.json": {Data: []byte(`{"content":"x"}`)},
		"content/README.md":              {Data: []byte(`readme`)},
	}
}

func TestFS_ReadFile(t *testing.T) {
	src := NewFS(tree())
	ctx := context.Background()

	data, err := src.ReadFile(ctx, "global/config.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"magazineName":"M"}` {
		t.Errorf("data = %s", data)
	}

	if _, err := src.ReadFile(ctx, "content/2025-11/theme.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}
}

func TestFS_RejectsEscapes(t *testing.T) {
	src := NewFS(tree())
	for _, name := range []string{"../etc/passwd", "content/../../x", "a\\b", "a\x00b"} {
		if _, err := src.ReadFile(context.Background(), name); !errors.Is(err, fs.ErrInvalid) {
			t.Errorf("ReadFile(%q) err = %v, want fs.ErrInvalid", name, err)
		}
	}
}

func TestFS_ReadDir(t *testing.T) {
	entries, err := NewFS(tree()).ReadDir(context.Background(), "content")
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Name: "2025-10", IsDir: true},
		{Name: "2025-11", IsDir: true},
		{Name: "README.md"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestFS_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFS(tree()).ReadFile(ctx, "global/config.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// fakeS3 serves objects from a map and pages listings two items at a time.
type fakeS3 struct {
	objects map[string][]byte
	gets    int
}

func newFakeS3(prefix string, m fstest.MapFS) *fakeS3 {
	f := &fakeS3{objects: make(map[string][]byte)}
	for k, v := range m {
		f.objects[prefix+k] = v.Data
	}
	return f
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gets++
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	seen := map[string]bool{}
	var items []string
	for k := range f.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		if !seen[rest] {
			seen[rest] = true
			items = append(items, rest)
		}
	}
	sort.Strings(items)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := start + 2
	if end > len(items) {
		end = len(items)
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(items))}
	if end < len(items) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	for _, it := range items[start:end] {
		if strings.HasSuffix(it, "/") {
			out.CommonPrefixes = append(out.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(prefix + it)})
		} else {
			out.Contents = append(out.Contents, s3types.Object{Key: aws.String(prefix + it)})
		}
	}
	return out, nil
}

func TestS3_ReadFile(t *testing.T) {
	client := newFakeS3("site/", tree())
	src := NewS3(client, "bucket", "/site")

	data, err := src.ReadFile(context.Background(), "content/2025-11/columns/a.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"content":"x"}` {
		t.Errorf("data = %s", data)
	}

	_, err = src.ReadFile(context.Background(), "content/2025-11/theme.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing key err = %v, want fs.ErrNotExist", err)
	}
}

func TestS3_ReadDirPaginates(t *testing.T) {
	src := NewS3(newFakeS3("", tree()), "bucket", "")

	entries, err := src.ReadDir(context.Background(), "content")
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Name: "2025-10", IsDir: true},
		{Name: "2025-11", IsDir: true},
		{Name: "README.md"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	root, err := src.ReadDir(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Entry{{Name: "content", IsDir: true}, {Name: "global", IsDir: true}}, root); diff != "" {
		t.Errorf("root mismatch (-want +got):\n%s", diff)
	}

	if _, err := src.ReadDir(context.Background(), "nothing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("empty prefix err = %v, want fs.ErrNotExist", err)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&s3types.NotFound{}) {
		t.Error("NotFound should map to not-exist")
	}
	if isNotFound(errors.New("access denied")) {
		t.Error("generic error should not map to not-exist")
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3Options{Region: "eu-west-1", Endpoint: "http://localhost:9000", UsePathStyle: true, AccessKeyID: "k", SecretAccessKey: "s"})
	o := client.Options()
	if o.Region != "eu-west-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = %+v", o)
	}
	creds, err := o.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "k" {
		t.Errorf("credentials = %+v, %v", creds, err)
	}
}
