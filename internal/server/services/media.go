package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/smolnikov/readhub/internal/server/config"
)

// MediaService hands out presigned S3 PUT URLs for avatar and cover image
// uploads. The object itself never passes through the backend.
type MediaService struct {
	config *config.Config
}

func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{config: cfg}
}

func (s *MediaService) storageKey(userID, kind string) string {
	return fmt.Sprintf("media/%s/%s/%v", userID, kind, uuid.New())
}

func (s *MediaService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// GetPresignedPutURL returns a 15-minute PUT URL for a new object of the
// given kind ("avatar" or "cover") plus the public URL it will be served
// from once uploaded.
func (s *MediaService) GetPresignedPutURL(ctx context.Context, userID, kind string) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(userID, kind)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	publicURL := strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key
	return req.URL, publicURL, nil
}
