package storagefactory

import (
	"context"
	"io"
	"strings"
	"testing"

	"fable/internal/config"
)

func TestNewStorage(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr bool
	}{
		{
			name: "valid local storage config",
			cfg: &config.StorageConfig{
				Type: "local",
				Local: &config.LocalConfig{
					BasePath: tmpDir,
					BaseURL:  "http://localhost:7080/storage",
				},
			},
			wantErr: false,
		},
		{
			name: "missing local config",
			cfg: &config.StorageConfig{
				Type:  "local",
				Local: nil,
			},
			wantErr: true,
		},
		{
			name: "missing oss config",
			cfg: &config.StorageConfig{
				Type: "oss",
				OSS:  nil,
			},
			wantErr: true,
		},
		{
			name: "unsupported storage type",
			cfg: &config.StorageConfig{
				Type: "s3",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st, err := NewStorage(ctx, tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewStorage() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("NewStorage() unexpected error: %v", err)
				return
			}
			if st == nil {
				t.Errorf("NewStorage() expected storage instance, got nil")
			}
		})
	}
}

func TestLocalStorage_Roundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	baseURL := "http://localhost:7080/storage"

	cfg := &config.StorageConfig{
		Type: "local",
		Local: &config.LocalConfig{
			BasePath: tmpDir,
			BaseURL:  baseURL,
		},
	}

	ctx := context.Background()
	st, err := NewStorage(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if st.GetStorageType() != "local" {
		t.Errorf("GetStorageType() = %v, want local", st.GetStorageType())
	}

	// 上传
	testKey := "runs/abc/scenes.json"
	testContent := `[{"id":"scene_001"}]`

	url, err := st.Upload(ctx, testKey, strings.NewReader(testContent), "application/json")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if want := baseURL + "/" + testKey; url != want {
		t.Errorf("Upload() url = %v, want %v", url, want)
	}

	// 存在性
	exists, err := st.Exists(ctx, testKey)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Errorf("Exists() = false, want true")
	}

	// 下载
	reader, err := st.Download(ctx, testKey)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer reader.Close()

	downloaded, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(downloaded) != testContent {
		t.Errorf("Download() content = %v, want %v", string(downloaded), testContent)
	}

	// 文件信息
	fileInfo, err := st.GetFileInfo(ctx, testKey)
	if err != nil {
		t.Fatalf("GetFileInfo() error = %v", err)
	}
	if fileInfo.Key != testKey {
		t.Errorf("GetFileInfo() Key = %v, want %v", fileInfo.Key, testKey)
	}
	if fileInfo.Size != int64(len(testContent)) {
		t.Errorf("GetFileInfo() Size = %v, want %v", fileInfo.Size, len(testContent))
	}
	if fileInfo.ContentType != "application/json" {
		t.Errorf("GetFileInfo() ContentType = %v, want application/json", fileInfo.ContentType)
	}

	// 本地存储不支持预签名上传
	if _, err := st.GetPresignedUploadURL(ctx, "in.txt", "text/plain", 0); err == nil {
		t.Errorf("GetPresignedUploadURL() expected error for local storage, got nil")
	}

	// 删除
	if err := st.Delete(ctx, testKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	exists, err = st.Exists(ctx, testKey)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false (file should be deleted)")
	}

	// 删除不存在的文件应当成功
	if err := st.Delete(ctx, "nonexistent/file.txt"); err != nil {
		t.Errorf("Delete() error = %v, should succeed for non-existent file", err)
	}
}
