package s3object

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/de-tools/roi-atlas/pkg/services/source/csvfile"
)

// GetObjectAPI is the subset of the S3 client used to fetch campaign files.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type objectSource struct {
	client GetObjectAPI
	bucket string
	key    string
}

// Factory creates an S3 source. The spec profile selects a shared AWS config
// profile; credentials otherwise follow the default AWS chain.
func Factory(ctx context.Context, spec domain.SourceSpec) (source.Source, error) {
	bucket, key, err := ParseLocation(spec.Location)
	if err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if spec.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(spec.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewSource(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewSource(client GetObjectAPI, bucket, key string) source.Source {
	return &objectSource{client: client, bucket: bucket, key: key}
}

// ParseLocation splits an s3://bucket/key URL.
func ParseLocation(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: expected s3://bucket/key", location)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: object key is empty", location)
	}
	return u.Host, key, nil
}

func (s *objectSource) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *objectSource) Load(ctx context.Context) ([]domain.CampaignRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", s.Name(), err)
	}
	defer out.Body.Close()

	return csvfile.Decode(out.Body)
}

func (s *objectSource) Close() error {
	return nil
}
