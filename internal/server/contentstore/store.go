// Package contentstore talks to the S3-compatible object store holding the
// site's image assets. The rest of the server treats it as an external
// collaborator: it stores bytes under a key and returns a public URL, nothing
// more.
package contentstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store is the asset-store surface the upload pipeline depends on.
type Store interface {
	// Put stores body under key with the given content type and returns the
	// public URL of the stored object.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Options carries the connection settings for the object store.
type Options struct {
	AccessKey    string
	SecretKey    string
	Region       string
	Bucket       string
	BaseEndpoint string
}

// S3Store implements Store on top of an S3-compatible backend (MinIO in
// development, S3 in production).
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimSuffix(opts.BaseEndpoint, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
