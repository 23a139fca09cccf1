package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"media-gallery-api/config"
	"media-gallery-api/internal/application/ports"
)

// API is the part of *s3.Client the store talks to.
type API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Client struct {
	logger        *zap.Logger
	api           API
	region        string
	publicBaseURL string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("s3 client configured", zap.String("region", cfg.Region), zap.String("endpoint", cfg.Endpoint))

	return NewWithAPI(logger, api, cfg), nil
}

func NewWithAPI(logger *zap.Logger, api API, cfg config.S3) *Client {
	return &Client{
		logger:        logger,
		api:           api,
		region:        cfg.Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// List walks the whole bucket because S3 cannot order by creation time, then
// sorts by LastModified and applies offset and limit.
func (c *Client) List(ctx context.Context, bucket string, opts ports.ListOptions) ([]ports.ObjectEntry, error) {
	paginator := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	var entries []ports.ObjectEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				return nil, fmt.Errorf("list objects in %s (%s): %w", bucket, apiErr.ErrorCode(), err)
			}
			return nil, fmt.Errorf("list objects in %s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			e := ports.ObjectEntry{Key: *obj.Key}
			if obj.LastModified != nil {
				e.CreatedAt = *obj.LastModified
			}
			if obj.Size != nil && *obj.Size > 0 {
				e.SizeBytes = uint64(*obj.Size)
			}
			entries = append(entries, e)
		}
	}

	slices.SortStableFunc(entries, func(a, b ports.ObjectEntry) int {
		if opts.SortDesc {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if opts.Offset > 0 {
		entries = entries[min(opts.Offset, len(entries)):]
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	c.logger.Debug("listed objects", zap.String("bucket", bucket), zap.Int("count", len(entries)))

	return entries, nil
}

func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, body []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	c.logger.Info("object uploaded", zap.String("bucket", bucket), zap.String("key", key), zap.Int("size", len(body)))

	return key, nil
}

func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}

	return nil
}

func (c *Client) PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + bucket + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, c.region, escaped)
}
