package storage

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ImageStore keeps uploaded images in an S3 bucket served from publicURL.
type ImageStore struct {
	bucket    string
	publicURL string
	client    *s3.Client
}

func NewImageStore(ctx context.Context, region, bucket, publicURL string) (*ImageStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	if publicURL == "" {
		publicURL = "https://" + bucket + ".s3." + region + ".amazonaws.com"
	}

	return &ImageStore{
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    s3.NewFromConfig(cfg),
	}, nil
}

func (s *ImageStore) Upload(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return errors.New("key is empty")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	})
	return err
}

// Delete is idempotent: a missing object is not an error.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}

func (s *ImageStore) URL(key string) string {
	return s.publicURL + "/" + key
}
