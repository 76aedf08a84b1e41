package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore 以斜杠分隔的 key 保存导出文件
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// URL 返回对象的访问地址
	URL(key string) string
}

// LocalObjectStore 将对象写入 Root 目录，由管理员路由在 /api/admin/exports 下提供访问
type LocalObjectStore struct {
	Root string
}

func (s *LocalObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return util.InvalidArgument("object key %q escapes the storage root", key)
	}
	dst := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, body, 0644)
}

func (s *LocalObjectStore) URL(key string) string {
	return "/api/admin/exports/" + key
}

type MinioObjectStore struct {
	Client *minio.Client
	Bucket string
}

func NewMinioObjectStore(cfg *config.ObjectStorageConfig) (*MinioObjectStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioObjectStore{Client: client, Bucket: cfg.MinioBucket}, nil
}

// Put 首次使用时若 bucket 不存在则自动创建
func (s *MinioObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	err := s.put(ctx, key, body, contentType)
	if err == nil || minio.ToErrorResponse(err).Code != "NoSuchBucket" {
		return err
	}

	logger.Log.Info("Creating export bucket", zap.String("bucket", s.Bucket))
	if err := s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.Bucket, err)
	}
	return s.put(ctx, key, body, contentType)
}

func (s *MinioObjectStore) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioObjectStore) URL(key string) string {
	return path.Join("/", s.Bucket, key)
}

type OSSObjectStore struct {
	Bucket   *oss.Bucket
	Endpoint string
}

func NewOSSObjectStore(cfg *config.ObjectStorageConfig) (*OSSObjectStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSObjectStore{Bucket: bucket, Endpoint: cfg.OSSEndpoint}, nil
}

func (s *OSSObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return s.Bucket.PutObject(key, bytes.NewReader(body), oss.ContentType(contentType), oss.WithContext(ctx))
}

func (s *OSSObjectStore) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.Bucket.BucketName, s.Endpoint, key)
}

// StorageService 根据 object_storage.type 选择对象存储
type StorageService struct {
	Store ObjectStore
}

func NewStorageService(cfg *config.ObjectStorageConfig) (*StorageService, error) {
	var (
		store ObjectStore
		err   error
	)
	switch cfg.Type {
	case util.StorageMinio:
		store, err = NewMinioObjectStore(cfg)
	case util.StorageOSS:
		store, err = NewOSSObjectStore(cfg)
	case util.StorageLocal, "":
		store = &LocalObjectStore{Root: cfg.LocalPath}
	default:
		err = fmt.Errorf("unsupported object storage type: %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return &StorageService{Store: store}, nil
}

// Save 保存文件并返回访问地址
func (s *StorageService) Save(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := s.Store.Put(ctx, key, body, contentType); err != nil {
		return "", err
	}
	return s.Store.URL(key), nil
}
