package oss

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"fable/internal/pkg/storage"
)

// OSSStorage 阿里云OSS存储
// 源文本与导出的分解文档走同一个 bucket，key 布局与本地存储一致
// （sources/、runs/<run_id>/），两种实现可以互换
type OSSStorage struct {
	bucket        *oss.Bucket
	bucketName    string
	presignExpiry time.Duration // 预签名URL时长上限，0 表示不设上限
}

var _ storage.Storage = (*OSSStorage)(nil)

// NewOSSStorage 创建阿里云OSS存储
func NewOSSStorage(endpoint, bucketName, accessKeyID, accessKeySecret string, presignExpirySeconds int) (*OSSStorage, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &OSSStorage{
		bucket:        bucket,
		bucketName:    bucketName,
		presignExpiry: time.Duration(presignExpirySeconds) * time.Second,
	}, nil
}

// clampExpiry 请求时长与配置上限取小，上限未配置时原样放行
func (s *OSSStorage) clampExpiry(expiresIn time.Duration) time.Duration {
	if s.presignExpiry > 0 && expiresIn > s.presignExpiry {
		return s.presignExpiry
	}
	return expiresIn
}

// Upload 上传文件（服务端上传）
func (s *OSSStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	err := s.bucket.PutObject(key, data, oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	url := fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.bucket.Client.Config.Endpoint, key)
	return url, nil
}

// Download 下载文件
func (s *OSSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return body, nil
}

// GetPresignedUploadURL 获取预签名上传URL（客户端直传）
func (s *OSSStorage) GetPresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	expiry := s.clampExpiry(expiresIn)

	url, err := s.bucket.SignURL(key, oss.HTTPPut, int64(expiry.Seconds()), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}
	return url, nil
}

// GetPresignedDownloadURL 获取预签名下载URL
func (s *OSSStorage) GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	expiry := s.clampExpiry(expiresIn)

	url, err := s.bucket.SignURL(key, oss.HTTPGet, int64(expiry.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return url, nil
}

// Delete 删除文件
func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *OSSStorage) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return exists, nil
}

// GetFileInfo 获取文件信息
func (s *OSSStorage) GetFileInfo(ctx context.Context, key string) (*storage.FileInfo, error) {
	props, err := s.bucket.GetObjectDetailedMeta(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	var size int64
	if sizeStr := props.Get("Content-Length"); sizeStr != "" {
		size, _ = strconv.ParseInt(sizeStr, 10, 64)
	}

	contentType := props.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	etag := strings.Trim(props.Get("ETag"), `"`)

	var lastModified time.Time
	if lastModifiedStr := props.Get("Last-Modified"); lastModifiedStr != "" {
		lastModified, _ = time.Parse(time.RFC1123, lastModifiedStr)
	}

	return &storage.FileInfo{
		Key:          key,
		Size:         size,
		ContentType:  contentType,
		ETag:         etag,
		LastModified: lastModified,
	}, nil
}

// GetStorageType 获取存储类型
func (s *OSSStorage) GetStorageType() string {
	return string(storage.StorageTypeOSS)
}
