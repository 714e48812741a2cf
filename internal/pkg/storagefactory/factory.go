package storagefactory

import (
	"context"
	"fmt"

	"fable/internal/config"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storage/local"
	"fable/internal/pkg/storage/oss"
)

// NewStorage 根据配置创建存储实例
// 独立成包是为了避免 storage 包与两个实现包互相引用
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch storage.StorageType(cfg.Type) {
	case storage.StorageTypeLocal:
		if cfg.Local == nil {
			return nil, fmt.Errorf("local storage config is required")
		}
		return local.NewLocalStorage(
			cfg.Local.BasePath,
			cfg.Local.BaseURL,
		)
	case storage.StorageTypeOSS:
		if cfg.OSS == nil {
			return nil, fmt.Errorf("OSS storage config is required")
		}
		return oss.NewOSSStorage(
			cfg.OSS.Endpoint,
			cfg.OSS.Bucket,
			cfg.OSS.AccessKeyID,
			cfg.OSS.AccessKeySecret,
			cfg.OSS.PresignExpiry,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
