// Package s3archive writes each lead as a JSON object to an S3 compatible
// bucket (AWS S3, Cloudflare R2, MinIO).
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/goliatone/go-careassess/pkg/lead"
)

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config describes the bucket. Endpoint is only needed for non-AWS stores;
// static keys fall back to the default credential chain when empty.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

var _ lead.Sink = (*Sink)(nil)

// Sink archives leads under prefix/YYYY/MM/DD/<id>.json.
type Sink struct {
	client putter
	bucket string
	prefix string
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3archive: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3archive: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newSink(client, cfg.Bucket, cfg.Prefix), nil
}

func newSink(client putter, bucket, prefix string) *Sink {
	return &Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *Sink) Name() string { return "s3" }

// Key returns the object key for l.
func (s *Sink) Key(l lead.Lead) string {
	day := l.CreatedAt.UTC().Format("2006/01/02")
	return path.Join(s.prefix, day, l.ID+".json")
}

func (s *Sink) Deliver(ctx context.Context, l lead.Lead) error {
	body, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("s3archive: encode lead %s: %w", l.ID, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(l)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"care-type": string(l.Recommendation.Type),
			"source":    string(l.Source),
		},
	})
	if err != nil {
		return fmt.Errorf("s3archive: put lead %s: %w", l.ID, err)
	}
	return nil
}
