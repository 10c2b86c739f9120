// Package blob archives the original bytes of uploaded source documents to
// S3-compatible object storage (R2, minio, plain S3). Archiving is entirely
// optional: with no storage configured the constructor returns a nil client
// and the rest of the application behaves identically.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/config"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/service"
)

// fallbackFilename is used when an upload arrives with no usable filename.
const fallbackFilename = "document.pdf"

// Client archives documents to a single bucket.
type Client struct {
	s3Client *s3.Client
	bucket   string
	logger   *slog.Logger
}

// Ensure Client implements service.Archiver
var _ service.Archiver = (*Client)(nil)

// NewClient builds an object storage client from configuration. It returns
// (nil, nil) when storage is not configured, so callers can treat archiving
// as disabled without special-casing errors.
func NewClient(ctx context.Context, cfg config.BlobConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	if !cfg.Enabled() {
		log.Info("object storage not configured, source archiving disabled")
		return nil, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: cfg.Endpoint}, nil
		})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage SDK config: %w", err)
	}

	log.Info("object storage client initialized", "bucket", cfg.Bucket)

	return &Client{
		s3Client: s3.NewFromConfig(awsCfg),
		bucket:   cfg.Bucket,
		logger:   log.With("component", "blob_archiver"),
	}, nil
}

// Archive uploads the document bytes under sources/<source-id>/<filename>
// and returns the object key.
func (c *Client) Archive(
	ctx context.Context,
	sourceID uuid.UUID,
	filename string,
	data []byte,
) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("object storage client not initialized")
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	name := sanitizeFilename(filename)
	key := fmt.Sprintf("sources/%s/%s", sourceID, name)

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document (key: %s): %w", key, err)
	}

	log.Debug("archived document",
		"source_id", sourceID,
		"key", key,
		"bytes", len(data))

	return key, nil
}

// sanitizeFilename reduces an uploaded filename to a safe object key
// segment: base name only, letters/digits/"._-" kept, everything else
// replaced with a dash.
func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)

	name = strings.Trim(name, ".-")
	if name == "" {
		return fallbackFilename
	}
	return name
}
