package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/models"
)

// S3Storage writes artifacts to an S3 bucket.
type S3Storage struct {
	client *s3.S3
	bucket string
	prefix string
}

// NewS3Storage creates an S3 storage instance.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for s3 storage")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	// For local testing with minio
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// WriteRecords uploads the run's records to
// s3://<bucket>/<prefix>/<year>/<month>/<YYYY-MM-DD-HHMM>.csv.
func (s *S3Storage) WriteRecords(ctx context.Context, runTime time.Time, records []models.AvailabilityRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	key := artifactName(runTime)
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)

	exists, err := s.objectExists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check artifact: %w", err)
	}
	if exists {
		return "", fmt.Errorf("artifact already exists: %s", location)
	}

	data, err := encodeRecords(records)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload artifact: %w", err)
	}

	return location, nil
}

// objectExists reports whether key is already present in the bucket.
func (s *S3Storage) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// Close implements Storage. The S3 client doesn't need explicit closing.
func (s *S3Storage) Close() error {
	return nil
}
