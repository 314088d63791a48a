package rendering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"renohub/internal/domain"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store writes each rendering as two objects: the image under
// <project>/<id> and its metadata under <project>/<id>.json.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string

	mu    sync.Mutex
	ready bool
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucketName: bucket, region: region}, nil
}

// ensureBucket creates the bucket on first use. A failed attempt is
// retried by the next call.
func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *S3Store) Put(ctx context.Context, meta domain.Rendering, data []byte) error {
	if strings.TrimSpace(meta.ID) == "" {
		return fmt.Errorf("rendering id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	meta.ProjectID = NormalizeProject(meta.ProjectID)
	key := objectKey(meta.ProjectID, meta.ID)

	if _, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: meta.MIMEType,
	}); err != nil {
		return fmt.Errorf("put image: %w", err)
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if _, err := s.client.PutObject(ctx, s.bucketName, metaKey(key), bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	}); err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, projectID, id string) (domain.Rendering, []byte, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return domain.Rendering{}, nil, fmt.Errorf("ensure bucket: %w", err)
	}
	key := objectKey(NormalizeProject(projectID), id)

	raw, err := s.read(ctx, metaKey(key))
	if err != nil {
		return domain.Rendering{}, nil, err
	}
	var meta domain.Rendering
	if err := json.Unmarshal(raw, &meta); err != nil {
		return domain.Rendering{}, nil, fmt.Errorf("decode metadata %s: %w", key, err)
	}
	data, err := s.read(ctx, key)
	if err != nil {
		return domain.Rendering{}, nil, err
	}
	return meta, data, nil
}

func (s *S3Store) List(ctx context.Context, projectID string) ([]domain.Rendering, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	prefix := NormalizeProject(projectID) + "/"

	out := make([]domain.Rendering, 0, 16)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		raw, err := s.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		var meta domain.Rendering
		if err := json.Unmarshal(raw, &meta); err != nil {
			continue
		}
		out = append(out, meta)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *S3Store) read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func metaKey(key string) string { return key + ".json" }
