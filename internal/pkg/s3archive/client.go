package s3archive

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/scrivehq/scrive/internal/pkg/env"
)

// Client archives generated thumbnail variations to S3-compatible storage.
// Archival is optional: deployments without S3 credentials run without it.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewFromEnv builds the archive client from environment configuration.
// Returns nil (no error) when archival is not configured.
func NewFromEnv(ctx context.Context) (*Client, error) {
	bucket := strings.TrimSpace(env.GetEnv("S3_ARCHIVE_BUCKET", ""))
	if bucket == "" {
		return nil, nil
	}

	accessKey := env.GetEnv("S3_ACCESS_KEY_ID", "")
	secretKey := env.GetEnv("S3_SECRET_ACCESS_KEY", "")
	region := env.GetEnv("S3_REGION", "auto")
	endpoint := strings.TrimSpace(env.GetEnv("S3_ENDPOINT", ""))

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: s3Client, bucket: bucket}, nil
}

// StoreGeneration writes each base64 variation under a per-generation
// prefix and returns that prefix.
func (c *Client) StoreGeneration(ctx context.Context, generationUUID string, variations []string) (string, error) {
	prefix := fmt.Sprintf("generations/%s", generationUUID)

	for i, encoded := range variations {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", fmt.Errorf("variation %d is not valid base64: %w", i+1, err)
		}

		key := fmt.Sprintf("%s/variation_%d.png", prefix, i+1)
		_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("image/png"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", key, err)
		}
	}

	return prefix, nil
}
