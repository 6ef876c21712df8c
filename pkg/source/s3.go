package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3 serves content from a bucket. Keys are prefix + tree path.
//
// Example usage:
//
//	client := source.NewS3Client(source.S3Options{Region: "eu-west-1"})
//	src := source.NewS3(client, "magazine", "site/")
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 creates an S3 source. A non-empty prefix is normalised to end in "/".
func NewS3(client S3API, bucket, prefix string) *S3 {
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// ReadFile implements Source.
func (s *S3) ReadFile(ctx context.Context, name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + clean),
	})
	if err != nil {
		return nil, s.pathError("open", clean, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", clean, err)
	}
	return data, nil
}

// ReadDir implements Source. S3 has no directories, so children are derived
// from common prefixes under a "/" delimiter.
func (s *S3) ReadDir(ctx context.Context, name string) ([]Entry, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	dir := s.prefix
	if clean != "." {
		dir += clean + "/"
	}

	var entries []Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(dir),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.pathError("readdir", clean, err)
		}
		for _, cp := range page.CommonPrefixes {
			n := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), dir), "/")
			if n != "" {
				entries = append(entries, Entry{Name: n, IsDir: true})
			}
		}
		for _, obj := range page.Contents {
			n := strings.TrimPrefix(aws.ToString(obj.Key), dir)
			if n != "" && !strings.Contains(n, "/") {
				entries = append(entries, Entry{Name: n})
			}
		}
	}
	if len(entries) == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: clean, Err: fs.ErrNotExist}
	}
	sortEntries(entries)
	return entries, nil
}

func (s *S3) pathError(op, name string, err error) error {
	if isNotFound(err) {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return &fs.PathError{Op: op, Path: name, Err: fmt.Errorf("s3://%s/%s%s: %w", s.bucket, s.prefix, name, err)}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	UsePathStyle    bool
}

// NewS3Client builds a client from explicit options. Without an access key
// requests are sent anonymously, which suits public buckets.
func NewS3Client(o S3Options) *s3.Client {
	opts := s3.Options{
		Region:       o.Region,
		UsePathStyle: o.UsePathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if o.Endpoint != "" {
		opts.BaseEndpoint = aws.String(o.Endpoint)
	}
	if o.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     o.AccessKeyID,
			SecretAccessKey: o.SecretAccessKey,
			SessionToken:    o.SessionToken,
			Source:          "almanac",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}
