// Package media is the adapter for the remote media host. The rest of the
// system only sees Store: an upload returns a stable key plus a retrieval URL,
// a delete takes the key back. Callers decide how delete failures are treated;
// most log and move on.
package media

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"app/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Asset identifies a stored object on the media host.
type Asset struct {
	Key string
	URL string
}

// Store uploads and deletes binary assets on the media host.
type Store interface {
	// Upload stores data under a fresh key inside folder and returns the asset.
	Upload(ctx context.Context, folder string, data []byte, contentType string) (*Asset, error)
	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Store creates a Store backed by an S3-compatible bucket. baseURL is the
// public endpoint assets are served from (path-style: baseURL/bucket/key).
func NewS3Store(client *s3.Client, bucket, baseURL string, logger zerolog.Logger) Store {
	return &s3Store{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger.With().Str("adapter", "S3Store").Logger(),
	}
}

func (s *s3Store) Upload(ctx context.Context, folder string, data []byte, contentType string) (*Asset, error) {
	key := path.Join(folder, uuid.NewString())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return nil, fmt.Errorf("%w: put object %s: %v", apperr.ErrMediaUpload, key, err)
	}
	return &Asset{
		Key: key,
		URL: fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
	}, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return fmt.Errorf("%w: delete object %s: %v", apperr.ErrMediaDelete, key, err)
	}
	return nil
}
