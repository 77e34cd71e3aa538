package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Region   string
	Bucket   string
	Endpoint string
}

// S3Presigner issues short-lived upload/download URLs; the service never
// proxies file bytes itself.
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
}

const presignTTL = time.Hour

func NewS3Presigner(ctx context.Context, cfg S3Config) (*S3Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// ObjectKey scopes uploads under their community.
func ObjectKey(communityID uint64, filename string) string {
	return fmt.Sprintf("uploads/%d/%d-%s", communityID, time.Now().UnixMilli(), filename)
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error) {
	out, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", time.Time{}, err
	}
	return out.URL, time.Now().Add(presignTTL), nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, time.Time, error) {
	out, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", time.Time{}, err
	}
	return out.URL, time.Now().Add(presignTTL), nil
}
