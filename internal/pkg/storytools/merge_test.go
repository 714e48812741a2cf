package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOutputMerger_MergeFlat(t *testing.T) {
	Convey("OutputMerger.MergeFlat 能按基准偏移合并扁平文档", t, func() {
		om := NewOutputMerger()

		Convey("场景文档重排序号并改写编号", func() {
			existing := []map[string]interface{}{
				{"index": 0, "id": "scene_001", "scene_idx": 0},
				{"index": 1, "id": "scene_002", "scene_idx": 1},
			}
			incoming := []map[string]interface{}{
				{"index": 0, "id": "scene_001", "scene_idx": 0},
				{"index": 1, "id": "scene_002", "scene_idx": 1},
			}
			merged := om.MergeFlat(existing, incoming)
			So(len(merged), ShouldEqual, 4)
			So(merged[2]["index"], ShouldEqual, 2)
			So(merged[2]["scene_idx"], ShouldEqual, 2)
			So(merged[2]["id"], ShouldEqual, "scene_003")
			So(merged[3]["id"], ShouldEqual, "scene_004")
		})

		Convey("解说与音效编号中的场景段同步改写", func() {
			existing := []map[string]interface{}{
				{"index": 0, "id": "narration_scene_001", "scene_idx": 0},
				{"index": 1, "id": "narration_scene_002", "scene_idx": 1},
			}
			incoming := []map[string]interface{}{
				{"index": 0, "id": "narration_scene_001", "scene_idx": 0},
			}
			merged := om.MergeFlat(existing, incoming)
			So(merged[2]["id"], ShouldEqual, "narration_scene_003")

			sfx := om.MergeFlat(
				[]map[string]interface{}{{"index": 0, "id": "sfx_scene_001"}},
				[]map[string]interface{}{{"index": 0, "id": "sfx_scene_001"}},
			)
			So(sfx[1]["id"], ShouldEqual, "sfx_scene_002")
		})

		Convey("缺少编号字段的文档只重排 index", func() {
			merged := om.MergeFlat(
				[]map[string]interface{}{{"index": 0}},
				[]map[string]interface{}{{"index": 0, "text": "body"}},
			)
			So(merged[1]["index"], ShouldEqual, 1)
			So(merged[1]["id"], ShouldBeNil)
			So(merged[1]["scene_idx"], ShouldBeNil)
		})

		Convey("基准为空时编号保持不变", func() {
			merged := om.MergeFlat(nil, []map[string]interface{}{
				{"index": 0, "id": "scene_001", "scene_idx": 0},
			})
			So(len(merged), ShouldEqual, 1)
			So(merged[0]["id"], ShouldEqual, "scene_001")
		})

		Convey("nil 文档原样保留", func() {
			merged := om.MergeFlat(
				[]map[string]interface{}{{"index": 0}},
				[]map[string]interface{}{nil},
			)
			So(len(merged), ShouldEqual, 2)
			So(merged[1], ShouldBeNil)
		})
	})
}

func TestOutputMerger_MergeShots(t *testing.T) {
	Convey("OutputMerger.MergeShots 能合并嵌套的分镜文档", t, func() {
		om := NewOutputMerger()
		existing := [][]map[string]interface{}{
			{{"id": "scene_001_shot_01", "scene_idx": 0, "shot_idx": 0}},
		}
		incoming := [][]map[string]interface{}{
			{
				{"id": "scene_001_shot_01", "scene_idx": 0, "shot_idx": 0},
				{"id": "scene_001_shot_02", "scene_idx": 0, "shot_idx": float64(1)},
			},
			{{"id": "scene_002_shot_01", "scene_idx": 1, "shot_idx": 0}},
		}

		merged := om.MergeShots(existing, incoming)

		Convey("场景序号按基准偏移", func() {
			So(len(merged), ShouldEqual, 3)
			So(merged[1][0]["scene_idx"], ShouldEqual, 1)
			So(merged[2][0]["scene_idx"], ShouldEqual, 2)
		})

		Convey("编号由场景与分镜序号重建", func() {
			So(merged[1][0]["id"], ShouldEqual, "scene_002_shot_01")
			// float64 形态的 shot_idx 同样参与重建
			So(merged[1][1]["id"], ShouldEqual, "scene_002_shot_02")
			So(merged[2][0]["id"], ShouldEqual, "scene_003_shot_01")
		})

		Convey("缺少 shot_idx 时按首镜头编号", func() {
			out := om.MergeShots(nil, [][]map[string]interface{}{
				{{"scene_idx": 0}},
			})
			So(out[0][0]["id"], ShouldEqual, "scene_001_shot_01")
		})
	})
}
