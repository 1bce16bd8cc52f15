package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	ErrNotAnImage   = errors.New("only image files are allowed")
)

// UploadFile is one file to push to the media store
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredObject locates an uploaded file. Key is what Delete takes.
type StoredObject struct {
	URL string
	Key string
}

// MediaStore keeps product media outside the database
type MediaStore interface {
	Upload(ctx context.Context, file UploadFile) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// ValidateImage rejects files that are not images or are larger than maxSize
func ValidateImage(contentType string, size, maxSize int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: got %q", ErrNotAnImage, contentType)
	}
	if size > maxSize {
		return fmt.Errorf("%w of %d bytes", ErrFileTooLarge, maxSize)
	}
	return nil
}

type putDeleter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client  putDeleter
	bucket  string
	region  string
	baseURL string
	folder  string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL, folder string) *S3Storage {
	var cfg aws.Config
	var err error

	// Static credentials when provided, otherwise the default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return newS3Storage(s3.NewFromConfig(cfg), region, bucket, baseURL, folder)
}

func newS3Storage(client putDeleter, region, bucket, baseURL, folder string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
		folder:  folder,
	}
}

func (s *S3Storage) objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", s.folder, uuid.New().String(), ext)
}

func (s *S3Storage) objectURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) Upload(ctx context.Context, file UploadFile) (*StoredObject, error) {
	key := s.objectKey(file.Filename)

	logger.Debug("Uploading object to S3", map[string]interface{}{
		"key":          key,
		"size":         file.Size,
		"content_type": file.ContentType,
	})

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		logger.Error("Failed to upload object to S3", err, map[string]interface{}{
			"key": key,
		})
		return nil, fmt.Errorf("failed to upload %s: %w", file.Filename, err)
	}

	return &StoredObject{URL: s.objectURL(key), Key: key}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("Failed to delete object from S3", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	logger.Debug("Deleted object from S3", map[string]interface{}{
		"key": key,
	})
	return nil
}
