package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/opencourse/campus/pkg/config"
)

var tracer = otel.Tracer("campus/media")

// Presigner is the slice of the S3 presign client the signer needs.
// *s3.PresignClient satisfies it.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Signer issues timed access URLs for objects in the course file bucket.
type Signer struct {
	presign Presigner
	bucket  string
	ttl     time.Duration
}

// NewSigner builds a Signer backed by a real S3 presign client.
func NewSigner(cfg config.StorageConfig) (*Signer, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKey,
				cfg.S3SecretKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		if cfg.S3UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Signer{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
		ttl:     cfg.SignedURLTTL,
	}, nil
}

// NewSignerWithPresigner wires a Signer onto an existing presign client.
func NewSignerWithPresigner(p Presigner, bucket string, ttl time.Duration) *Signer {
	return &Signer{presign: p, bucket: bucket, ttl: ttl}
}

// IssueTimedAccessURL signs a GET for the given object key. The returned
// URL is valid for the signer's configured lifetime starting now.
func (s *Signer) IssueTimedAccessURL(ctx context.Context, key string) (string, time.Time, error) {
	ctx, span := tracer.Start(ctx, "media.IssueTimedAccessURL")
	defer span.End()
	span.SetAttributes(attribute.String("s3.key", key))

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(s.ttl), nil
}
