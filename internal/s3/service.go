package s3

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/flexprice/paymirror/internal/config"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
)

const contentTypeJSON = "application/json"

// Archiver stores first-seen provider notifications for replay and debugging
type Archiver interface {
	Archive(ctx context.Context, resourceType, eventID string, body []byte) error
}

type s3Archiver struct {
	client *s3.Client
	config *config.ArchiveConfig
	logger *logger.Logger
}

// NewArchiver returns a no-op archiver when archiving is disabled
func NewArchiver(cfg *config.Configuration, logger *logger.Logger) (Archiver, error) {
	if !cfg.Archive.Enabled {
		return noopArchiver{}, nil
	}

	opts := []func(*awsConfig.LoadOptions) error{}
	if cfg.Archive.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Archive.Region))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &s3Archiver{
		config: &cfg.Archive,
		client: s3.NewFromConfig(awsCfg),
		logger: logger,
	}, nil
}

// ObjectKey is {prefix}/{resource_type}/{event_id}.json
func ObjectKey(prefix, resourceType, eventID string) string {
	if resourceType == "" {
		resourceType = "unknown"
	}
	return path.Join(strings.Trim(prefix, "/"), strings.ToLower(resourceType), eventID+".json")
}

func (a *s3Archiver) Archive(ctx context.Context, resourceType, eventID string, body []byte) error {
	key := ObjectKey(a.config.Prefix, resourceType, eventID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to archive notification").
			WithMessagef("bucket:%s, key:%s", a.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	a.logger.Debugw("archived notification", "bucket", a.config.Bucket, "key", key)
	return nil
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, string, string, []byte) error { return nil }
