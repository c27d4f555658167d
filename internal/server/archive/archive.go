// Package archive copies reminder records to S3-compatible object storage so
// dispensing history survives outside the primary database.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/medreminder/internal/server/config"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
)

// Archiver stores a reminder outside the database.
type Archiver interface {
	Archive(ctx context.Context, r *models.Reminder) error
}

// Nop is used when no bucket is configured.
type Nop struct{}

func (Nop) Archive(context.Context, *models.Reminder) error { return nil }

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Archiver writes one JSON object per reminder.
type S3Archiver struct {
	client putObjectAPI
	bucket string
}

// New returns an S3Archiver when cfg names a bucket, Nop otherwise.
func New(ctx context.Context, cfg *config.Config) (Archiver, error) {
	if cfg.S3Bucket == "" {
		return Nop{}, nil
	}
	return NewS3Archiver(ctx, cfg)
}

func NewS3Archiver(ctx context.Context, c *config.Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.S3Region)}
	if c.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{client: client, bucket: c.S3Bucket}, nil
}

// Key is the object key for r: reminders/YYYY/MM/DD/<id>.json in UTC.
func Key(r *models.Reminder) string {
	d := r.CreatedAt.UTC()
	return fmt.Sprintf("reminders/%04d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), r.ID)
}

func (a *S3Archiver) Archive(ctx context.Context, r *models.Reminder) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	key := Key(r)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
