package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/video"
)

// S3Storage stores media assets in an S3-compatible bucket.
type S3Storage struct {
	bucket        string
	region        string
	endpoint      string
	usePathStyle  bool
	publicBaseURL string
	client        *s3.Client
	log           zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	storage := &S3Storage{
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		endpoint:      cfg.S3Endpoint,
		usePathStyle:  cfg.S3UsePathStyle,
		publicBaseURL: strings.TrimSuffix(strings.TrimSpace(cfg.S3PublicBaseURL), "/"),
		log:           logger,
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	storage.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	logger.Info().
		Str("bucket", storage.bucket).
		Str("region", storage.region).
		Msg("s3 storage initialized")

	return storage, nil
}

// Upload puts the asset under a fresh key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*video.StoredObject, error) {
	key := objectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	s.log.Debug().Str("key", key).Msg("file uploaded to s3")
	return &video.StoredObject{Key: key, URL: s.objectURL(key)}, nil
}

// Delete removes the object behind a URL this backend produced. URLs that do
// not resolve to a key in the bucket are ignored.
func (s *S3Storage) Delete(ctx context.Context, rawURL string) error {
	key := s.keyFromURL(rawURL)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Health checks bucket reachability.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Storage) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	if s.endpoint != "" {
		base := strings.TrimSuffix(s.endpoint, "/")
		if s.usePathStyle {
			return fmt.Sprintf("%s/%s/%s", base, s.bucket, key)
		}
		return fmt.Sprintf("%s/%s", base, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) keyFromURL(rawURL string) string {
	if s.publicBaseURL != "" {
		marker := s.publicBaseURL + "/"
		if strings.HasPrefix(rawURL, marker) {
			return strings.TrimPrefix(rawURL, marker)
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(parsed.Path, "/")
	if s.usePathStyle {
		path = strings.TrimPrefix(path, s.bucket+"/")
	}
	if path == "" || strings.Contains(path, "..") {
		return ""
	}
	return path
}
