// Package storage persists uploaded images in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/platform/config"
)

const uploadFolder = "uploads"

type s3Store struct {
	client        *s3.S3
	bucket        string
	publicBaseURL string
}

// NewS3Store creates the image store. Credentials come from the default AWS
// chain (env vars, shared config, instance role).
func NewS3Store(cfg *config.Config) (portssvc.ImageStoreFacade, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.S3Region)}
	if cfg.S3Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.S3Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	publicBaseURL := cfg.S3PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &s3Store{
		client:        s3.New(sess),
		bucket:        cfg.S3Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

var _ portssvc.ImageStoreFacade = (*s3Store)(nil)

// Upload stores the image under a random key and returns its public URL.
// The original file name only contributes its extension.
func (s *s3Store) Upload(ctx context.Context, fileName string, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s%s", uploadFolder, uuid.NewString(), path.Ext(fileName))

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}
