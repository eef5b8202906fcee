package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/tumbluv/tumbluv-api/internal/config"
)

var (
	ErrStorageNotConfigured = errors.New("object storage is not configured")
	ErrFilenameRequired     = errors.New("filename is required")
)

// PresignedUpload is a one-shot direct upload target
type PresignedUpload struct {
	UploadURL string
	FileKey   string
	FileURL   string
	ExpiresAt time.Time
	Method    string
	Headers   map[string]string
}

// UploadService issues presigned PUT URLs for project thumbnails
type UploadService struct {
	cfg     config.S3
	presign *s3.PresignClient
	clock   Clock
}

// NewUploadService builds the S3 client. Without a bucket the service
// answers ErrStorageNotConfigured.
func NewUploadService(ctx context.Context, cfg config.S3, clock Clock) (*UploadService, error) {
	if clock == nil {
		clock = time.Now
	}
	svc := &UploadService{cfg: cfg, clock: clock}
	if cfg.Bucket == "" {
		return svc, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	svc.presign = s3.NewPresignClient(client)

	return svc, nil
}

// PresignThumbnail returns a presigned PUT for a new object under the
// configured prefix
func (s *UploadService) PresignThumbnail(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	if s.presign == nil {
		return nil, ErrStorageNotConfigured
	}
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ext := strings.ToLower(path.Ext(filename))
	key := strings.TrimLeft(path.Join(strings.Trim(s.cfg.Prefix, "/"), uuid.NewString()+ext), "/")

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.cfg.PresignExpire
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	upload := &PresignedUpload{
		UploadURL: req.URL,
		FileKey:   key,
		FileURL:   s.fileURL(key),
		ExpiresAt: s.clock().Add(s.cfg.PresignExpire),
		Method:    req.Method,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
	}
	for k, v := range req.SignedHeader {
		if len(v) > 0 {
			upload.Headers[k] = v[0]
		}
	}

	return upload, nil
}

func (s *UploadService) fileURL(key string) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.Endpoint, "/")
	}
	if base == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
	if s.cfg.UsePathStyle {
		return base + "/" + s.cfg.Bucket + "/" + key
	}
	return base + "/" + key
}
