package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/config"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storage/local"
)

func newTestLocalStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := local.NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatalf("create local storage: %v", err)
	}
	return store
}

func TestSourceService_UploadSource(t *testing.T) {
	Convey("UploadSource 落盘源文本并返回存储 key", t, func() {
		store := newTestLocalStorage(t)
		svc := NewSourceService(nil, store)
		ctx := context.Background()

		Convey("纯文本上传成功", func() {
			result, err := svc.UploadSource(ctx, &UploadSourceRequest{
				Name: "forest.txt",
				Data: strings.NewReader(testNovel),
			})
			So(err, ShouldBeNil)
			So(result.SourceID, ShouldNotBeEmpty)
			So(result.SourceKey, ShouldStartWith, "sources/")
			So(result.SourceKey, ShouldEndWith, ".txt")
			So(result.FileName, ShouldEqual, "forest.txt")
			So(result.FileSize, ShouldEqual, int64(len(testNovel)))
			So(result.Encoding, ShouldEqual, "utf-8")
			So(result.WordCount, ShouldBeGreaterThan, 0)
			So(result.Deduplicated, ShouldBeFalse)

			Convey("存储中的内容与上传一致", func() {
				rc, err := store.Download(ctx, result.SourceKey)
				So(err, ShouldBeNil)
				defer rc.Close()
				raw, err := io.ReadAll(rc)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, testNovel)
			})

			Convey("上传后可直接作为 source_key 发起分解", func() {
				decompose := NewDecomposeService(&config.Config{}, nil, nil, store, nil)
				run, err := decompose.Decompose(ctx, &DecomposeRequest{
					SourceKey:  result.SourceKey,
					SourceName: result.FileName,
				})
				So(err, ShouldBeNil)
				So(run.Title, ShouldEqual, "forest.txt")
				So(len(run.Scenes), ShouldEqual, 3)
			})
		})

		Convey("无扩展名的文件名补 txt", func() {
			result, err := svc.UploadSource(ctx, &UploadSourceRequest{
				Name: "forest",
				Data: strings.NewReader("A quiet valley under the stars."),
			})
			So(err, ShouldBeNil)
			So(result.SourceKey, ShouldEndWith, ".txt")
		})

		Convey("空内容返回 ErrEmptySource", func() {
			_, err := svc.UploadSource(ctx, &UploadSourceRequest{
				Name: "empty.txt",
				Data: strings.NewReader("   \n\t  "),
			})
			So(errors.Is(err, ErrEmptySource), ShouldBeTrue)
		})

		Convey("二进制内容返回 ErrUnsupportedFormat", func() {
			// PNG 魔数
			png := string([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0})
			_, err := svc.UploadSource(ctx, &UploadSourceRequest{
				Name: "image.png",
				Data: strings.NewReader(png),
			})
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("未配置存储返回 ErrStorageDisabled", func() {
			noStore := NewSourceService(nil, nil)
			_, err := noStore.UploadSource(ctx, &UploadSourceRequest{
				Name: "forest.txt",
				Data: strings.NewReader(testNovel),
			})
			So(errors.Is(err, ErrStorageDisabled), ShouldBeTrue)
		})
	})
}

func TestSourceService_QueriesWithoutMongo(t *testing.T) {
	Convey("未配置 MongoDB 时查询类接口统一降级", t, func() {
		svc := NewSourceService(nil, newTestLocalStorage(t))
		ctx := context.Background()

		_, err := svc.GetSource(ctx, "any-id")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		_, err = svc.ListSources(ctx, &ListSourcesRequest{})
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		_, err = svc.DownloadSource(ctx, "any-id")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)

		err = svc.DeleteSource(ctx, "any-id")
		So(errors.Is(err, ErrPersistenceDisabled), ShouldBeTrue)
	})
}
