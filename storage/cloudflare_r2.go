package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type CloudflareR2BadgeConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
	// PresignTTL > 0 switches bare object keys to presigned GET URLs,
	// otherwise they are joined onto PublicBaseURL.
	PresignTTL time.Duration
}

type cloudflareR2BadgeResolver struct {
	presign       func(ctx context.Context, key string) (string, error)
	publicBaseURL *url.URL
	presignTTL    time.Duration
}

func NewCloudflareR2BadgeResolver(cfg CloudflareR2BadgeConfig) (BadgeResolver, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" || cfg.PublicBaseURL == "" {
		return nil, errors.New("invalid Cloudflare R2 configuration: all fields are required")
	}

	baseURL, err := url.Parse(cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Cloudflare R2 public base URL %q: %w", cfg.PublicBaseURL, err)
	}

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
			SigningRegion: "auto",
		}, nil
	})

	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	presignClient := s3.NewPresignClient(s3.NewFromConfig(sdkCfg))
	bucket := cfg.BucketName

	return &cloudflareR2BadgeResolver{
		publicBaseURL: baseURL,
		presignTTL:    cfg.PresignTTL,
		presign: func(ctx context.Context, key string) (string, error) {
			req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(cfg.PresignTTL))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
	}, nil
}

// Resolve leaves absolute URLs alone and maps bare object keys onto the bucket.
func (r *cloudflareR2BadgeResolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref, nil
	}

	key := strings.TrimPrefix(ref, "/")
	if r.presignTTL > 0 {
		signed, err := r.presign(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to presign badge (key: %s): %w", key, err)
		}
		return signed, nil
	}
	return publicURL(r.publicBaseURL, key)
}

func publicURL(base *url.URL, key string) (string, error) {
	pathURL, err := url.Parse(key)
	if err != nil {
		return "", fmt.Errorf("invalid badge key %q: %w", key, err)
	}
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return b.ResolveReference(pathURL).String(), nil
}
