package solver

import (
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"rjet/model"
)

// 单飞执行器：任意时刻至多一个求解在跑。新请求入队时直接
// 取代还没开跑的旧请求；开跑期间若有更新的请求到达，跑完的
// 结果按过期处理，由回调方丢弃

type solveTask struct {
	geom model.GeometryConfig
	op   model.OperatingPoint
	opts Options
	seq  uint64
}

type executor struct {
	pending chan solveTask
	seq     atomic.Uint64

	// stale 为真表示该结果已被更新的请求取代
	onResult func(t solveTask, f *model.SolutionField, err error, stale bool)
}

func newExecutor(onResult func(solveTask, *model.SolutionField, error, bool)) *executor {
	return &executor{
		pending:  make(chan solveTask, 1),
		onResult: onResult,
	}
}

// 入队一个求解请求并立即返回，返回值为请求序号
func (e *executor) submit(geom model.GeometryConfig, op model.OperatingPoint, opts Options) uint64 {
	t := solveTask{geom: geom, op: op, opts: opts, seq: e.seq.Add(1)}
	for {
		select {
		case e.pending <- t:
			return t.seq
		default:
			select {
			case old := <-e.pending:
				log.WithFields(log.Fields{"seq": old.seq}).Debug("排队中的请求被取代")
			default:
			}
		}
	}
}

// 消费请求直到 stop 关闭。求解在本协程内同步执行
func (e *executor) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case t := <-e.pending:
			f, err := SolveWithOptions(t.geom, t.op, t.opts)
			e.onResult(t, f, err, t.seq != e.seq.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
