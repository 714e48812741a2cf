package storytools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCheckpoint(t *testing.T) {
	Convey("Checkpoint 能幂等记录已完成条目", t, func() {
		cp := NewCheckpoint([]int{0, 1, 2})

		Convey("初始状态包含给定序号", func() {
			So(cp.Count(), ShouldEqual, 3)
			So(cp.Contains(1), ShouldBeTrue)
			So(cp.Contains(5), ShouldBeFalse)
		})

		Convey("标记幂等，负数序号忽略", func() {
			cp.Mark(5)
			cp.Mark(5)
			cp.Mark(-1)
			So(cp.Count(), ShouldEqual, 4)
			So(cp.Indices(), ShouldResemble, []int{0, 1, 2, 5})
		})

		Convey("完成百分比保留一位小数", func() {
			cp.Mark(5)
			So(cp.Percent(8), ShouldEqual, 50.0)
			So(cp.Percent(3), ShouldEqual, 133.3)
		})

		Convey("全部完成判断", func() {
			So(cp.AllComplete(3), ShouldBeTrue)
			So(cp.AllComplete(4), ShouldBeFalse)
		})
	})
}

func TestBatchPlanner_Batch(t *testing.T) {
	Convey("BatchPlanner.Batch 能切出定长批次", t, func() {
		bp := NewBatchPlanner(10)

		Convey("总批次数向上取整", func() {
			So(bp.TotalBatches(107), ShouldEqual, 11)
			So(bp.TotalBatches(10), ShouldEqual, 1)
			So(bp.TotalBatches(0), ShouldEqual, 0)
			So(bp.TotalBatches(-5), ShouldEqual, 0)
		})

		Convey("首批次", func() {
			batch := bp.Batch(107, 0)
			So(batch.Start, ShouldEqual, 0)
			So(batch.End, ShouldEqual, 10)
			So(batch.Size, ShouldEqual, 10)
			So(batch.TotalBatches, ShouldEqual, 11)
			So(batch.HasMore, ShouldBeTrue)
		})

		Convey("末批次只含余量", func() {
			batch := bp.Batch(107, 10)
			So(batch.Start, ShouldEqual, 100)
			So(batch.End, ShouldEqual, 107)
			So(batch.Size, ShouldEqual, 7)
			So(batch.HasMore, ShouldBeFalse)
		})

		Convey("越界序号返回空批次", func() {
			batch := bp.Batch(107, 11)
			So(batch.Size, ShouldEqual, 0)
			So(batch.TotalBatches, ShouldEqual, 11)
			So(batch.HasMore, ShouldBeFalse)

			So(bp.Batch(107, -1).Size, ShouldEqual, 0)
		})

		Convey("batchSize 不为正时默认 10", func() {
			So(NewBatchPlanner(0).BatchSize(), ShouldEqual, 10)
			So(NewBatchPlanner(-3).TotalBatches(100), ShouldEqual, 10)
		})
	})
}

func TestBatchPlanner_Plan(t *testing.T) {
	Convey("BatchPlanner.Plan 能依据检查点计算续跑规划", t, func() {
		bp := NewBatchPlanner(10)

		Convey("无检查点时从头开始", func() {
			plan := bp.Plan(107, nil)
			So(plan.TotalItems, ShouldEqual, 107)
			So(plan.TotalBatches, ShouldEqual, 11)
			So(plan.CompletedItems, ShouldEqual, 0)
			So(plan.ResumeBatchIndex, ShouldEqual, 0)
			So(plan.RemainingItems, ShouldEqual, 107)
			So(plan.RemainingBatches, ShouldEqual, 11)
			So(plan.PercentComplete, ShouldEqual, 0.0)
			So(plan.AllComplete, ShouldBeFalse)
		})

		Convey("续跑批次是首个未完整覆盖的批次", func() {
			cp := NewCheckpoint([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 15})
			plan := bp.Plan(107, cp)
			So(plan.CompletedItems, ShouldEqual, 11)
			So(plan.ResumeBatchIndex, ShouldEqual, 1)
			So(plan.RemainingItems, ShouldEqual, 96)
			So(plan.RemainingBatches, ShouldEqual, 10)
			So(plan.PercentComplete, ShouldEqual, 10.3)
		})

		Convey("全部完成时续跑位置为总批次数", func() {
			indices := make([]int, 25)
			for i := range indices {
				indices[i] = i
			}
			plan := bp.Plan(25, NewCheckpoint(indices))
			So(plan.ResumeBatchIndex, ShouldEqual, 3)
			So(plan.RemainingItems, ShouldEqual, 0)
			So(plan.PercentComplete, ShouldEqual, 100.0)
			So(plan.AllComplete, ShouldBeTrue)
			So(plan.EstimatedSeconds, ShouldEqual, 0.0)
		})

		Convey("空工作集视为未完成零条目", func() {
			plan := bp.Plan(0, nil)
			So(plan.TotalBatches, ShouldEqual, 0)
			So(plan.ResumeBatchIndex, ShouldEqual, 0)
			So(plan.PercentComplete, ShouldEqual, 0.0)
			So(plan.AllComplete, ShouldBeTrue)
		})

		Convey("默认按每条 10 秒估算剩余耗时", func() {
			plan := bp.Plan(12, nil)
			So(plan.EstimatedSeconds, ShouldEqual, 120.0)
		})
	})
}

func TestBatchPlanner_EstimateSeconds(t *testing.T) {
	Convey("BatchPlanner.EstimateSeconds 能估算剩余耗时", t, func() {
		bp := NewBatchPlanner(10)

		Convey("无观测数据时用默认单件耗时", func() {
			So(bp.EstimateSeconds(30, 0, 0), ShouldEqual, 300.0)
		})

		Convey("有观测数据时用实际均值", func() {
			// 20 条耗时 50 秒，单件 2.5 秒
			So(bp.EstimateSeconds(10, 20, 50), ShouldEqual, 25.0)
		})

		Convey("单件默认耗时可调", func() {
			tuned := NewBatchPlanner(10)
			tuned.SetSecondsPerItem(2)
			So(tuned.EstimateSeconds(30, 0, 0), ShouldEqual, 60.0)

			tuned.SetSecondsPerItem(-1)
			So(tuned.EstimateSeconds(30, 0, 0), ShouldEqual, 60.0)
		})

		Convey("剩余量为负按零处理", func() {
			So(bp.EstimateSeconds(-5, 0, 0), ShouldEqual, 0.0)
		})
	})
}
