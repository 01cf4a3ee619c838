package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds the settings of an S3 (or S3-compatible) bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty = AWS default endpoint resolution
	AccessKey string // empty = default credential chain
	SecretKey string
	PublicURL string // empty = references are bare object keys
}

// objectPutter is the subset of *s3.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores images as objects in a bucket.
type S3Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 uploader: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Uploader(client objectPutter, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// Store uploads the decoded payload under blogs/<yyyy>/<mm>/<dd>/<uuid>.<ext>.
func (u *S3Uploader) Store(ctx context.Context, payload string) (string, error) {
	img, err := DecodePayload(payload)
	if err != nil {
		return "", err
	}

	d := u.now().UTC()
	key := fmt.Sprintf("blogs/%04d/%02d/%02d/%s.%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), img.Ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ContentType:   aws.String(img.MIME),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if u.publicURL == "" {
		return key, nil
	}
	return u.publicURL + "/" + key, nil
}
