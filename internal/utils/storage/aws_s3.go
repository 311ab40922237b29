package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"Kitchen-Backend/domain"
	"Kitchen-Backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client    *s3.Client
		bucket    string
		publicURL string
	}
)

func NewAwsS3(cfg utils.Config) (AwsS3, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.AWSS3Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSS3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.AWSS3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWSS3Bucket, cfg.AWSS3Region)
	}

	return &awsS3{
		client:    client,
		bucket:    cfg.AWSS3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mime, err := DetectContentType(f, allowed...)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s-%s%s", folder, fileName, uuid.NewString(), mime.Extension())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String(mime.String()),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", objectKey, err)
	}
	return nil
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return s.publicURL + "/" + objectKey
}

// GetObjectKeyFromLink returns "" for links that do not point into the bucket.
func (s *awsS3) GetObjectKeyFromLink(link string) string {
	return ObjectKeyFromLink(s.publicURL, link)
}

func ObjectKeyFromLink(publicURL, link string) string {
	prefix := strings.TrimRight(publicURL, "/") + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

// DetectContentType sniffs r and rewinds it. An empty allow list accepts
// any type.
func DetectContentType(r io.ReadSeeker, allowed ...string) (*mimetype.MIME, error) {
	mime, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if len(allowed) > 0 && !mimetype.EqualsAny(mime.String(), allowed...) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileTypeNotAllow, mime.String())
	}
	return mime, nil
}
