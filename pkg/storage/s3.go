// Package storage stores public files in one S3-compatible bucket, split into
// logical buckets by key prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/models"
)

type Bucket string

const (
	Flyers        Bucket = "flyers"
	ProductImages Bucket = "product-images"
	ContestPhotos Bucket = "contest-photos"
	EventPhotos   Bucket = "event-photos"
)

var (
	ErrUnknownBucket = errors.New("unknown storage bucket")
	ErrInvalidPath   = errors.New("invalid object path")
)

func (b Bucket) Valid() bool {
	switch b {
	case Flyers, ProductImages, ContestPhotos, EventPhotos:
		return true
	}

	return false
}

type Storage interface {
	Upload(ctx context.Context, bucket Bucket, name string, body io.Reader, size int64, contentType string) (string, error)
	PublicURL(bucket Bucket, name string) string
	List(ctx context.Context, bucket Bucket, prefix string) ([]models.StoredFile, error)
	Delete(ctx context.Context, bucket Bucket, names ...string) error
}

// s3API is the subset of *s3.Client used here.
type s3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type s3Storage struct {
	client    s3API
	bucket    string
	publicURL string
}

func NewS3Storage(ctx context.Context, cfg config.Storage) (Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return NewWithClient(client, cfg.Bucket, publicURL), nil
}

func NewWithClient(client s3API, bucket, publicURL string) Storage {
	return &s3Storage{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func objectKey(bucket Bucket, name string) (string, error) {
	if !bucket.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	return string(bucket) + clean, nil
}

// Upload stores body as bucket/name and returns its public URL.
func (s *s3Storage) Upload(ctx context.Context, bucket Bucket, name string, body io.Reader, size int64, contentType string) (string, error) {
	key, err := objectKey(bucket, name)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	}

	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.url(key), nil
}

func (s *s3Storage) PublicURL(bucket Bucket, name string) string {
	key, err := objectKey(bucket, name)
	if err != nil {
		return ""
	}

	return s.url(key)
}

func (s *s3Storage) url(key string) string {
	return s.publicURL + "/" + key
}

// List returns the files under bucket/prefix, names relative to the bucket.
func (s *s3Storage) List(ctx context.Context, bucket Bucket, prefix string) ([]models.StoredFile, error) {
	if !bucket.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	root := string(bucket) + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(root + strings.TrimPrefix(prefix, "/")),
	})

	files := []models.StoredFile{}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			files = append(files, models.StoredFile{
				Name: strings.TrimPrefix(key, root),
				URL:  s.url(key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	return files, nil
}

func (s *s3Storage) Delete(ctx context.Context, bucket Bucket, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(names))
	for _, name := range names {
		key, err := objectKey(bucket, name)
		if err != nil {
			return err
		}
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", bucket, err)
	}

	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
	}

	return nil
}

// NameFromURL returns the object name inside bucket for a URL produced by
// PublicURL, or "" when the URL points elsewhere.
func NameFromURL(s Storage, bucket Bucket, url string) string {
	base := s.PublicURL(bucket, "x")
	if base == "" {
		return ""
	}

	prefix := strings.TrimSuffix(base, "x")
	if !strings.HasPrefix(url, prefix) {
		return ""
	}

	return strings.TrimPrefix(url, prefix)
}
