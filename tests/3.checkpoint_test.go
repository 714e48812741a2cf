// Package tests 检查点与续跑规划集成测试
//
// 运行测试：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -run TestDecompose_Checkpoint -v
//
// 说明：
//   - 验证检查点的累积合并、幂等标记、Upsert 单文档语义与续跑规划
package tests

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"

	"fable/internal/service"
)

// TestDecompose_Checkpoint 测试检查点标记与续跑规划
func TestDecompose_Checkpoint(t *testing.T) {
	Convey("检查点标记测试", t, func() {
		ctx := testCtx
		svc := testServices.DecomposeService

		result := decomposeTestNovel(t, "Checkpoint Run")
		runID := result.RunID

		Convey("首次标记一个场景", func() {
			cp, err := svc.MarkCheckpoint(ctx, &service.CheckpointRequest{
				RunID:     runID,
				Completed: []int{0},
			})
			So(err, ShouldBeNil)
			So(cp.RunID, ShouldEqual, runID)
			So(cp.Total, ShouldEqual, 3)
			So(cp.Completed, ShouldResemble, []int{0})
			So(cp.Percent, ShouldEqual, 33.3)
			So(cp.AllComplete, ShouldBeFalse)
			So(cp.Plan.CompletedItems, ShouldEqual, 1)
			So(cp.Plan.RemainingItems, ShouldEqual, 2)

			Convey("后续标记与已有记录合并", func() {
				cp2, err := svc.MarkCheckpoint(ctx, &service.CheckpointRequest{
					RunID:     runID,
					Completed: []int{1, 2},
				})
				So(err, ShouldBeNil)
				So(cp2.Completed, ShouldResemble, []int{0, 1, 2})
				So(cp2.Percent, ShouldEqual, 100.0)
				So(cp2.AllComplete, ShouldBeTrue)
				So(cp2.Plan.AllComplete, ShouldBeTrue)
				So(cp2.Plan.RemainingItems, ShouldEqual, 0)

				Convey("重复标记幂等，负数序号忽略", func() {
					cp3, err := svc.MarkCheckpoint(ctx, &service.CheckpointRequest{
						RunID:     runID,
						Completed: []int{2, 2, -1},
					})
					So(err, ShouldBeNil)
					So(cp3.Completed, ShouldResemble, []int{0, 1, 2})
					So(cp3.Percent, ShouldEqual, 100.0)
				})

				Convey("多次标记只保留一个检查点文档", func() {
					count, err := testDB.Collection("checkpoints").CountDocuments(ctx, bson.M{"run_id": runID})
					So(err, ShouldBeNil)
					So(count, ShouldEqual, 1)

					doc, err := testServices.CheckpointRepo.FindByRunID(ctx, runID)
					So(err, ShouldBeNil)
					So(doc.Total, ShouldEqual, 3)
					So(doc.AllComplete, ShouldBeTrue)
				})
			})
		})

		Convey("不存在的运行返回 ErrRunNotFound", func() {
			_, err := svc.MarkCheckpoint(ctx, &service.CheckpointRequest{
				RunID:     "no-such-run",
				Completed: []int{0},
			})
			So(errors.Is(err, service.ErrRunNotFound), ShouldBeTrue)
		})
	})
}
