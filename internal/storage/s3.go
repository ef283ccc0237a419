package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider implements Provider using Amazon S3.
type S3Provider struct {
	client    *s3.Client
	presigner *s3.PresignClient
}

// NewS3Provider creates an S3Provider. Credentials and region come from the
// default AWS configuration chain unless cfg overrides them.
func NewS3Provider(ctx context.Context, cfg Config) (*S3Provider, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS configuration: %v", ErrInvalidConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &S3Provider{
		client:    client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

// ProbeBucket issues a HeadBucket request.
func (p *S3Provider) ProbeBucket(ctx context.Context, bucket string) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return classifyS3Error(err, ErrRequestFailed)
	}
	return nil
}

// ProbeObject issues a HeadObject request.
func (p *S3Provider) ProbeObject(ctx context.Context, bucket, key string) error {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, ErrRequestFailed)
	}
	return nil
}

// ListBuckets pages through every bucket owned by the caller.
func (p *S3Provider) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	var buckets []BucketInfo

	paginator := s3.NewListBucketsPaginator(p.client, &s3.ListBucketsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err, ErrRequestFailed)
		}
		for _, b := range page.Buckets {
			buckets = append(buckets, BucketInfo{
				Name:      aws.ToString(b.Name),
				CreatedAt: aws.ToTime(b.CreationDate),
			})
		}
	}

	return buckets, nil
}

// SignGetURL presigns a GetObject request valid for ttl.
func (p *S3Provider) SignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	req, err := p.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", classifyS3Error(err, ErrPresignFailed)
	}
	return req.URL, nil
}

// Ensure S3Provider implements Provider.
var _ Provider = (*S3Provider)(nil)
