// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/utils"
)

// StorageService keeps product images and NFT metadata in S3 or any
// S3-compatible store. Without credentials it is disabled and uploads fail
// with ErrStorageDisabled.
type StorageService struct {
	s3Client s3iface.S3API
	config   config.AWSConfig
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" || cfg.S3Bucket == "" {
		return &StorageService{config: cfg, now: time.Now}, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		// MinIO and friends need path-style addressing
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewStorageServiceWithClient(s3.New(sess), cfg), nil
}

// NewStorageServiceWithClient wires an existing S3 client.
func NewStorageServiceWithClient(client s3iface.S3API, cfg config.AWSConfig) *StorageService {
	return &StorageService{
		s3Client: client,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *StorageService) Enabled() bool {
	return s.s3Client != nil
}

func (s *StorageService) UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("%w: file size %d bytes exceeds maximum allowed size %d bytes", ErrInvalidUpload, header.Size, options.MaxSize)
	}

	// Validate file type
	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	if len(options.AllowedTypes) > 0 && !contains(options.AllowedTypes, fileExt) {
		return nil, fmt.Errorf("%w: file type %s is not allowed", ErrInvalidUpload, fileExt)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	contentType, ok := detectImageType(fileBytes)
	if !ok {
		return nil, fmt.Errorf("%w: not an image", ErrInvalidUpload)
	}

	return s.put(ctx, s.generateFileName(header.Filename, options.Folder), fileBytes, contentType)
}

// UploadJSON stores v as a public JSON document at key.
func (s *StorageService) UploadJSON(ctx context.Context, key string, v interface{}) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.put(ctx, key, body, "application/json")
}

func (s *StorageService) put(ctx context.Context, key string, body []byte, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.PublicURL(key),
		Key:      key,
		Size:     int64(len(body)),
		MimeType: contentType,
		SHA256:   utils.HashBytes(body),
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if !s.Enabled() {
		return ErrStorageDisabled
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (s *StorageService) ProductImageOptions() UploadOptions {
	return UploadOptions{
		Folder:       "products",
		MaxSize:      10 * 1024 * 1024, // 10MB
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	timestamp := s.now().UTC().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString()[:8], ext)

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

// PublicURL is where clients fetch an uploaded object.
func (s *StorageService) PublicURL(key string) string {
	if s.config.PublicURL != "" {
		return strings.TrimRight(s.config.PublicURL, "/") + "/" + key
	}
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.Endpoint, "/"), s.config.S3Bucket, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.Region, key)
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// detectImageType sniffs the content, ignoring whatever the client claims.
func detectImageType(buffer []byte) (string, bool) {
	detected := mimetype.Detect(buffer)
	for _, t := range imageTypes {
		if detected.Is(t) {
			return t, true
		}
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
