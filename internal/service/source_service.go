package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/story"
	"fable/internal/pkg/id"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storytools"
	storyrepo "fable/internal/repository/story"
)

var (
	ErrSourceNotFound  = errors.New("源文本不存在")
	ErrStorageDisabled = errors.New("未配置存储，源文本上传不可用")
)

// SourceService 源文本服务接口
// 管理上传的小说原文：落盘到存储、登记元数据，供分解运行通过 source_key 引用
type SourceService interface {
	// UploadSource 上传源文本（服务端上传）
	// 上传前解码校验：二进制/容器格式与空文本直接拒绝；
	// 相同内容（MD5一致）的文本不重复落盘，返回已有记录
	UploadSource(ctx context.Context, req *UploadSourceRequest) (*UploadSourceResult, error)

	// GetSource 查询源文本元数据（不下载内容）
	GetSource(ctx context.Context, sourceID string) (*story.Source, error)

	// ListSources 分页查询源文本列表
	ListSources(ctx context.Context, req *ListSourcesRequest) (*ListSourcesResult, error)

	// DownloadSource 下载源文本内容（返回文件流）
	DownloadSource(ctx context.Context, sourceID string) (*DownloadSourceResult, error)

	// DeleteSource 删除源文本（记录软删除，存储对象一并清理）
	DeleteSource(ctx context.Context, sourceID string) error
}

// sourceService 源文本服务实现
type sourceService struct {
	sourceRepo storyrepo.SourceRepository
	store      storage.Storage
}

// NewSourceService 创建源文本服务
// db 可为 nil：此时只落盘到存储、不登记元数据，查询类接口不可用
func NewSourceService(db *mongo.Database, store storage.Storage) SourceService {
	s := &sourceService{store: store}
	if db != nil {
		s.sourceRepo = storyrepo.NewSourceRepo(db)
	}
	return s
}

// UploadSourceRequest 上传源文本请求
type UploadSourceRequest struct {
	Name        string    // 原始文件名
	Title       string    // 展示标题（可选）
	ContentType string    // MIME类型
	Data        io.Reader // 文件内容
}

// UploadSourceResult 上传源文本结果
type UploadSourceResult struct {
	SourceID     string `json:"source_id"`            // 源文本ID
	SourceKey    string `json:"source_key"`           // 存储 key，创建运行时填入
	SourceURL    string `json:"source_url,omitempty"` // 临时访问URL
	FileName     string `json:"file_name"`            // 原始文件名
	FileSize     int64  `json:"file_size"`            // 文件大小（字节）
	Encoding     string `json:"encoding"`             // 探测到的编码
	WordCount    int    `json:"word_count"`           // 词数
	Deduplicated bool   `json:"deduplicated"`         // 是否命中已有同内容文本
}

// UploadSource 上传源文本
func (s *sourceService) UploadSource(ctx context.Context, req *UploadSourceRequest) (*UploadSourceResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	raw, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptySource
	}

	// 解码校验，顺便取编码与词数元数据；存储中保留原始字节
	ingested, err := storytools.NewTextIngester().Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if strings.TrimSpace(ingested.Text) == "" {
		return nil, ErrEmptySource
	}

	sum := md5.Sum(raw)
	md5Hex := hex.EncodeToString(sum[:])

	// 同内容去重：已有记录直接复用，不重复落盘
	if s.sourceRepo != nil {
		if existing, err := s.sourceRepo.FindByMD5(ctx, md5Hex); err == nil {
			return s.toUploadResult(ctx, existing, true), nil
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Err(err).Msg("源文本去重查询失败")
		}
	}

	sourceID := id.New()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Name)), ".")
	if ext == "" {
		ext = "txt"
	}
	storageKey := fmt.Sprintf("sources/%s.%s", sourceID, ext)

	contentType := req.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=" + ingested.Encoding
	}

	if _, err := s.store.Upload(ctx, storageKey, bytes.NewReader(raw), contentType); err != nil {
		return nil, fmt.Errorf("upload source: %w", err)
	}

	src := &story.Source{
		ID:          sourceID,
		Name:        req.Name,
		Title:       req.Title,
		StorageKey:  storageKey,
		StorageType: s.store.GetStorageType(),
		Ext:         ext,
		FileSize:    int64(len(raw)),
		ContentType: contentType,
		MD5:         md5Hex,
		Encoding:    ingested.Encoding,
		WordCount:   ingested.WordCount,
		CharCount:   ingested.CharCount,
	}
	if s.sourceRepo != nil {
		if err := s.sourceRepo.Create(ctx, src); err != nil {
			return nil, fmt.Errorf("create source record: %w", err)
		}
	}

	return s.toUploadResult(ctx, src, false), nil
}

// toUploadResult 组装上传结果，临时URL生成失败不影响主流程
func (s *sourceService) toUploadResult(ctx context.Context, src *story.Source, dedup bool) *UploadSourceResult {
	sourceURL, err := s.store.GetPresignedDownloadURL(ctx, src.StorageKey, 24*time.Hour)
	if err != nil {
		log.Warn().Err(err).Str("storage_key", src.StorageKey).Msg("生成源文本访问URL失败")
		sourceURL = ""
	}
	return &UploadSourceResult{
		SourceID:     src.ID,
		SourceKey:    src.StorageKey,
		SourceURL:    sourceURL,
		FileName:     src.Name,
		FileSize:     src.FileSize,
		Encoding:     src.Encoding,
		WordCount:    src.WordCount,
		Deduplicated: dedup,
	}
}

// GetSource 查询源文本元数据
func (s *sourceService) GetSource(ctx context.Context, sourceID string) (*story.Source, error) {
	if s.sourceRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	src, err := s.sourceRepo.FindByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}
	return src, nil
}

// ListSourcesRequest 源文本列表请求
type ListSourcesRequest struct {
	Page     int // 页码，从1开始
	PageSize int // 每页条数
}

// ListSourcesResult 源文本列表结果
type ListSourcesResult struct {
	Sources  []*story.Source `json:"sources"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ListSources 分页查询源文本列表
func (s *sourceService) ListSources(ctx context.Context, req *ListSourcesRequest) (*ListSourcesResult, error) {
	if s.sourceRepo == nil {
		return nil, ErrPersistenceDisabled
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	sources, total, err := s.sourceRepo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &ListSourcesResult{
		Sources:  sources,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DownloadSourceResult 下载源文本结果
type DownloadSourceResult struct {
	Data        io.ReadCloser // 文件流，调用方负责关闭
	FileName    string
	FileSize    int64
	ContentType string
}

// DownloadSource 下载源文本内容
func (s *sourceService) DownloadSource(ctx context.Context, sourceID string) (*DownloadSourceResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	src, err := s.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Download(ctx, src.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download source: %w", err)
	}
	return &DownloadSourceResult{
		Data:        rc,
		FileName:    src.Name,
		FileSize:    src.FileSize,
		ContentType: src.ContentType,
	}, nil
}

// DeleteSource 删除源文本
func (s *sourceService) DeleteSource(ctx context.Context, sourceID string) error {
	src, err := s.GetSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if err := s.sourceRepo.Delete(ctx, sourceID); err != nil {
		return fmt.Errorf("delete source record: %w", err)
	}
	// 存储对象清理失败不回滚记录删除
	if s.store != nil {
		if err := s.store.Delete(ctx, src.StorageKey); err != nil {
			log.Warn().Err(err).Str("storage_key", src.StorageKey).Msg("删除源文本存储对象失败")
		}
	}
	return nil
}
