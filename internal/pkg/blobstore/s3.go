package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Store talks to any S3-compatible object store (AWS, Supabase storage,
// MinIO) through the official SDK.
type S3Store struct {
	client       *s3.Client
	bucket       string
	endpoint     string
	region       string
	customDomain string
	pathStyle    bool
	logger       *zap.Logger
}

// NewS3Store builds an S3 client from static credentials. A custom endpoint
// forces path-style access, matching how S3-compatible providers expose
// buckets.
func NewS3Store(cfg Config, logger *zap.Logger) (*S3Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	region := strings.TrimSpace(cfg.Region)
	accessKey := strings.TrimSpace(cfg.AccessKeyID)
	secretKey := strings.TrimSpace(cfg.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete storage config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSuffix(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	pathStyle := cfg.PathStyleAccess
	if endpoint != "" {
		pathStyle = true
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		UsePathStyle: pathStyle,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}

	return &S3Store{
		client:       s3.New(opts),
		bucket:       bucket,
		endpoint:     endpoint,
		region:       region,
		customDomain: strings.TrimRight(strings.TrimSpace(cfg.CustomDomain), "/"),
		pathStyle:    pathStyle,
		logger:       logger,
	}, nil
}

// Put uploads payload and returns its public URL.
func (s *S3Store) Put(ctx context.Context, folder, filename, contentType string, payload []byte) (string, error) {
	key := objectKey(folder, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return s.publicURL(key), nil
}

// DeleteMany issues a single batch deletion for all URLs that resolve to a
// key in this bucket. Unresolvable URLs and per-key failures are collected
// into the returned error; the batch itself never aborts early.
func (s *S3Store) DeleteMany(ctx context.Context, urls []string) error {
	var objects []s3types.ObjectIdentifier
	var failed []string

	for _, raw := range urls {
		key, ok := s.KeyFromURL(raw)
		if !ok {
			s.logger.Warn("blob url does not resolve to a key in this bucket", zap.String("url", raw))
			failed = append(failed, raw)
			continue
		}
		objects = append(objects, s3types.ObjectIdentifier{Key: aws.String(key)})
	}

	if len(objects) > 0 {
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("delete batch of %d objects: %w", len(objects), err)
		}
		for _, e := range out.Errors {
			failed = append(failed, aws.ToString(e.Key))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d of %d blobs: %s", len(failed), len(urls), strings.Join(failed, ", "))
	}
	return nil
}

// KeyFromURL maps a public blob URL back to its object key. Returns false for
// URLs that do not belong to this store.
func (s *S3Store) KeyFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if s.customDomain != "" && strings.HasPrefix(raw, s.customDomain+"/") {
		return strings.TrimPrefix(raw, s.customDomain+"/"), true
	}

	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")

	if s.pathStyle {
		// path-style: /<bucket>/<key>
		if rest, ok := strings.CutPrefix(path, s.bucket+"/"); ok && rest != "" {
			return rest, true
		}
		return "", false
	}
	// virtual-hosted: bucket lives in the host, path is the key
	if path == "" {
		return "", false
	}
	return path, true
}

func (s *S3Store) publicURL(key string) string {
	if s.customDomain != "" {
		return s.customDomain + "/" + key
	}
	if s.endpoint != "" {
		return s.endpoint + "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// objectKey joins the folder prefix with a collision-resistant name that
// preserves the original extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
