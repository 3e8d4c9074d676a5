// Package storage uploads company logos to S3 and returns their public URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLogoBytes is the largest logo UploadLogo accepts.
const MaxLogoBytes = 5 << 20

var ErrNotImage = errors.New("logo is not an image")

// S3Config selects the bucket. Empty keys fall back to the default AWS
// credential chain. Endpoint points at an S3-compatible store such as MinIO.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

// S3ConfigFromEnv reads AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
// S3_BUCKET_NAME and S3_ENDPOINT.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:          os.Getenv("AWS_REGION"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Bucket:          os.Getenv("S3_BUCKET_NAME"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
	}
}

// LogoUploader stores logo images in one bucket.
type LogoUploader struct {
	client s3iface.S3API
	cfg    S3Config
	logger *zap.Logger
	now    func() time.Time
}

// NewLogoUploader opens an AWS session for cfg.
func NewLogoUploader(cfg S3Config, logger *zap.Logger) (*LogoUploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket name is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("AWS region is required")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return newLogoUploader(s3.New(sess), cfg, logger), nil
}

func newLogoUploader(client s3iface.S3API, cfg S3Config, logger *zap.Logger) *LogoUploader {
	return &LogoUploader{
		client: client,
		cfg:    cfg,
		logger: logger.Named("logo_uploader"),
		now:    time.Now,
	}
}

// UploadLogo stores the image read from r under logos/<company id>/ and
// returns its public URL. filename only supplies the extension.
func (u *LogoUploader) UploadLogo(ctx context.Context, companyID uuid.UUID, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if len(data) > MaxLogoBytes {
		return "", fmt.Errorf("logo exceeds %d bytes", MaxLogoBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		// svg sniffs as text/xml
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); strings.HasPrefix(byExt, "image/") {
			contentType = byExt
		} else {
			return "", fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionFor(contentType)
	}
	key := fmt.Sprintf("logos/%s/%d%s", companyID, u.now().Unix(), ext)

	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := u.publicURL(key)
	u.logger.Info("Logo uploaded",
		zap.String("company_id", companyID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return url, nil
}

func (u *LogoUploader) publicURL(key string) string {
	if u.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}
