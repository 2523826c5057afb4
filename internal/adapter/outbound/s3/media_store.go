package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/videoflow/server/internal/shared/config"
)

// UploadParams are the presigned direct-upload parameters handed to the
// client so media bytes never pass through the API server.
type UploadParams struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaStore stores video and thumbnail objects in S3-compatible storage.
type MediaStore struct {
	client        *awss3.Client
	presigner     *awss3.PresignClient
	bucket        string
	publicBaseURL string
	uploadExpiry  time.Duration
}

// NewMediaStore builds an S3 client from configuration. A non-empty
// endpoint routes to an S3-compatible service such as R2 or MinIO.
func NewMediaStore(ctx context.Context, cfg *config.StorageConfig) (*MediaStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &MediaStore{
		client:        client,
		presigner:     awss3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		uploadExpiry:  expiry,
	}, nil
}

// PresignUpload returns a fresh object key and a presigned PUT URL scoped
// under the team's prefix.
func (m *MediaStore) PresignUpload(ctx context.Context, teamID uuid.UUID, kind, filename, contentType string) (*UploadParams, error) {
	key := fmt.Sprintf("teams/%s/%s/%s-%s", teamID, kind, uuid.New(), sanitizeFilename(filename))

	req, err := m.presigner.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(m.uploadExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &UploadParams{
		Key:       key,
		UploadURL: req.URL,
		ExpiresAt: time.Now().Add(m.uploadExpiry),
	}, nil
}

// Put writes an object directly. Used for server-generated content such as
// thumbnails.
func (m *MediaStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Open streams an object's contents. The caller closes the reader.
func (m *MediaStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	out, err := m.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get object %s: %w", key, err)
	}
	return out.Body, aws.ToInt64(out.ContentLength), nil
}

// Delete removes an object.
func (m *MediaStore) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL builds the CDN-facing URL for an object key.
func (m *MediaStore) PublicURL(key string) string {
	return m.publicBaseURL + "/" + key
}

func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-")
	name = replacer.Replace(name)
	if name == "" {
		name = "upload"
	}
	return name
}
