// Package storage archives generated documents in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/domain/printing"
	"github.com/garage/invoicer/internal/infrastructure/config"
	docs "github.com/garage/invoicer/internal/infrastructure/printing"
)

// objectAPI is the subset of *s3.Client used by S3DocumentStorage
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// presignAPI is the subset of *s3.PresignClient used by S3DocumentStorage
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3DocumentStorage stores invoices as objects and hands out presigned
// download URLs. Works with AWS S3 and compatible servers (MinIO, RustFS).
type S3DocumentStorage struct {
	client            objectAPI
	presignClient     presignAPI
	bucket            string
	prefix            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3DocumentStorageOption is a functional option for configuring S3DocumentStorage
type S3DocumentStorageOption func(*S3DocumentStorage)

// WithLogger sets a custom logger for S3DocumentStorage
func WithLogger(logger *zap.Logger) S3DocumentStorageOption {
	return func(s *S3DocumentStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3DocumentStorageOption {
	return func(s *S3DocumentStorage) {
		s.presignExpiration = d
	}
}

// NewS3DocumentStorage creates a document sink from configuration. Static
// credentials are used when both keys are set; with neither set the default
// AWS credential chain applies.
func NewS3DocumentStorage(ctx context.Context, cfg *config.StorageConfig, opts ...S3DocumentStorageOption) (*S3DocumentStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" && cfg.SecretKey != "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" && cfg.AccessKey != "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := newS3DocumentStorage(client, s3.NewPresignClient(client), cfg.Bucket, cfg.Prefix, opts...)
	if s.presignExpiration == 0 {
		s.presignExpiration = cfg.PresignExpiry
	}
	if s.presignExpiration == 0 {
		s.presignExpiration = 24 * time.Hour
	}
	return s, nil
}

func newS3DocumentStorage(client objectAPI, presign presignAPI, bucket, prefix string, opts ...S3DocumentStorageOption) *S3DocumentStorage {
	s := &S3DocumentStorage{
		client:        client,
		presignClient: presign,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// normalizeEndpoint adds a scheme to bare host:port endpoints
func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint: %q", endpoint)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3DocumentStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Key returns the object key a document with the given file name is stored under
func (s *S3DocumentStorage) Key(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Save uploads doc and returns a presigned download URL for it
func (s *S3DocumentStorage) Save(ctx context.Context, doc *printing.Document) (string, error) {
	if doc == nil || len(doc.Data) == 0 {
		return "", docs.NewRenderError(docs.ErrCodeStorageFailed, "document is empty", nil)
	}
	if doc.Filename == "" {
		return "", docs.NewRenderError(docs.ErrCodeStorageFailed, "document has no file name", nil)
	}

	key := s.Key(doc.Filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(doc.Data),
		ContentLength:      aws.Int64(doc.Size()),
		ContentType:        aws.String("application/pdf"),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	})
	if err != nil {
		return "", docs.NewRenderError(docs.ErrCodeStorageFailed, "failed to upload document", err)
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", docs.NewRenderError(docs.ErrCodeStorageFailed, "failed to generate download URL", err)
	}

	s.logger.Info("PDF stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", doc.Size()))
	return req.URL, nil
}

// Delete removes a stored document by file name
func (s *S3DocumentStorage) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return errors.New("file name is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(filename)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Bucket returns the bucket name
func (s *S3DocumentStorage) Bucket() string {
	return s.bucket
}

var _ docs.DocumentStorage = (*S3DocumentStorage)(nil)
