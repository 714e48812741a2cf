package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTextIngester_Decode(t *testing.T) {
	Convey("TextIngester.Decode 能解码并清洗原始字节", t, func() {
		ti := NewTextIngester()

		Convey("空输入返回零值结果", func() {
			result, err := ti.Decode(nil)
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "")
			So(result.Status, ShouldEqual, "empty source text")
		})

		Convey("utf-8 文本直接解码", func() {
			result, err := ti.Decode([]byte("Hello world."))
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "Hello world.")
			So(result.Encoding, ShouldEqual, EncodingUTF8)
			So(result.WordCount, ShouldEqual, 2)
			So(result.CharCount, ShouldEqual, 12)
			So(result.Status, ShouldContainSubstring, "Encoding: utf-8")
		})

		Convey("utf-8 BOM 被剥离", func() {
			raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Bom text")...)
			result, err := ti.Decode(raw)
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "Bom text")
			So(result.Encoding, ShouldEqual, EncodingUTF8)
		})

		Convey("utf-16 依据 BOM 解码", func() {
			le, err := ti.Decode([]byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00})
			So(err, ShouldBeNil)
			So(le.Text, ShouldEqual, "Hi")
			So(le.Encoding, ShouldEqual, EncodingUTF16)

			be, err := ti.Decode([]byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'})
			So(err, ShouldBeNil)
			So(be.Text, ShouldEqual, "Hi")
		})

		Convey("非法 utf-8 回退 latin-1", func() {
			result, err := ti.Decode([]byte{'c', 'a', 'f', 0xE9})
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "café")
			So(result.Encoding, ShouldEqual, EncodingLatin1)
			So(result.CharCount, ShouldEqual, 4)
		})

		Convey("已知二进制格式拒绝读入", func() {
			png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
			result, err := ti.Decode(png)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "image/png")
			So(result.Status, ShouldContainSubstring, "unsupported binary format")
		})

		Convey("指定 cp1252 解码弯引号", func() {
			quoted := NewTextIngester()
			quoted.SetEncoding(EncodingCP1252)
			result, err := quoted.Decode([]byte{0x93, 'h', 'i', 0x94})
			So(err, ShouldBeNil)
			// 清洗阶段把弯引号替换为对称引号
			So(result.Text, ShouldEqual, `"hi"`)
			So(result.Encoding, ShouldEqual, EncodingCP1252)
		})

		Convey("指定 ascii 遇到高位字节报错", func() {
			strict := NewTextIngester()
			strict.SetEncoding(EncodingASCII)
			result, err := strict.Decode([]byte{'o', 'k', 0xFF})
			So(err, ShouldNotBeNil)
			So(result.Status, ShouldContainSubstring, "decode failed")
		})

		Convey("指定未知编码报错", func() {
			unknown := NewTextIngester()
			unknown.SetEncoding("koi8")
			_, err := unknown.Decode([]byte("text"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported encoding")
		})

		Convey("指定 utf-8 遇到非法序列报错", func() {
			strict := NewTextIngester()
			strict.SetEncoding(EncodingUTF8)
			_, err := strict.Decode([]byte{0xE9})
			So(err, ShouldNotBeNil)
		})

		Convey("清洗行尾空白与换行", func() {
			result, err := ti.Decode([]byte("A   \r\nB"))
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "A\nB")
		})

		Convey("清洗页码行", func() {
			result, _ := ti.Decode([]byte("Line one.\n42\nLine two.\n- 7 -\nLine three."))
			So(result.Text, ShouldEqual, "Line one.\nLine two.\nLine three.")
		})

		Convey("压缩过多空行", func() {
			result, _ := ti.Decode([]byte("A\n\n\n\n\nB"))
			So(result.Text, ShouldEqual, "A\n\n\nB")
		})

		Convey("关闭清洗时保留原样", func() {
			rawKeeper := NewTextIngester()
			rawKeeper.SetCleanText(false)
			result, _ := rawKeeper.Decode([]byte("A   \nB"))
			So(result.Text, ShouldEqual, "A   \nB")
		})

		Convey("剔除章节标题行", func() {
			headless := NewTextIngester()
			headless.SetRemoveHeaders(true)
			raw := "Chapter 1 The Fall\nStory line one.\nPART 2\nStory line two.\n# Title\nEnd line."
			result, _ := headless.Decode([]byte(raw))
			So(result.Text, ShouldEqual, "Story line one.\nStory line two.\nEnd line.")
		})

		Convey("解码后为空不视为错误", func() {
			result, err := ti.Decode([]byte("   "))
			So(err, ShouldBeNil)
			So(result.Text, ShouldEqual, "")
			So(result.Status, ShouldEqual, "empty source text")
		})
	})
}
