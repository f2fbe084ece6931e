package blobx

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

// S3Config carries everything needed to reach an S3-compatible object
// store. Endpoint is a bare host ("s3.example.com"); path-style
// addressing is used so MinIO and Hetzner-style backends work.
type S3Config struct {
	Endpoint    string
	Region      string
	KeyID       string
	Secret      string
	Bucket      string
	CallTimeout time.Duration
}

// S3Store stores blobs in a single bucket of an S3-compatible backend.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	timeout time.Duration
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds an S3Store from config. It does not dial the
// backend; the first Upload or Delete does.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.Region == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("blobx: incomplete s3 config")
	}

	endpoint := "https://" + cfg.Endpoint

	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.KeyID, cfg.Secret, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true, // MinIO and Hetzner require path-style URLs
	})

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: endpoint + "/" + cfg.Bucket + "/",
		timeout: timeout,
	}, nil
}

// Upload writes data under a fresh key inside folder and returns the
// object's public URL.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	key := objectKey(folder, contentType)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %q: %v", ErrUnavailable, key, err)
	}

	return s.baseURL + key, nil
}

// Delete removes the object a previous Upload returned url for.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || key == "" {
		return fmt.Errorf("%w: %q", ErrBadRef, url)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// objectKey builds "<folder>/<ulid><ext>", deriving the extension from
// the content type so stored objects stay browsable.
func objectKey(folder, contentType string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	if folder == "" {
		folder = "misc"
	}
	return strings.Trim(folder, "/") + "/" + idx.New().String() + ext
}
