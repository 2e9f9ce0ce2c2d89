// kinematics 在解出的速度场 v(x) 中推进示踪粒子，给动画层提供帧数据。
// 粒子在入口生成，显式欧拉法沿轴向平流，飞出喷管出口后回收。
package kinematics

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/interp"

	"rjet/deque"
	"rjet/model"
)

// 推送给前端的一帧粒子
type Frame struct {
	Time      float64          `json:"time"` // 仿真时间 s
	Particles []model.Particle `json:"particles"`
}

type Engine struct {
	mu sync.Mutex

	cfg  Config
	pool deque.Deque

	// 速度场插值器，未设置解场前为 nil，Step 是无操作
	v    *interp.PiecewiseLinear
	vIn  float64 // 入口速度
	exit float64 // 出口轴向位置

	step int
	t    float64 // 累计仿真时间
}

func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

func NewEngineWithConfig(cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.Dt <= 0 {
		cfg.Dt = d.Dt
	}
	if cfg.StepsPerFrame <= 0 {
		cfg.StepsPerFrame = d.StepsPerFrame
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = d.FrameInterval
	}
	if cfg.Particles <= 0 {
		cfg.Particles = d.Particles
	}
	if cfg.FrameParticles <= 0 {
		cfg.FrameParticles = d.FrameParticles
	}
	if cfg.SpawnEvery <= 0 {
		cfg.SpawnEvery = d.SpawnEvery
	}
	return &Engine{
		cfg:  cfg,
		pool: deque.NewArrDeque(cfg.Particles),
	}
}

// 换上新的解场。在飞的粒子保留，下一步开始按新速度场推进，
// 出口变短时越界的粒子在下一步自然回收
func (e *Engine) SetField(f *model.SolutionField) error {
	if f == nil || len(f.Fluid) < 2 {
		return errors.New("解场为空，无法拟合速度场")
	}
	xs := make([]float64, len(f.Fluid))
	vs := make([]float64, len(f.Fluid))
	for i, fs := range f.Fluid {
		xs[i] = fs.X
		vs[i] = fs.Velocity
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, vs); err != nil {
		return err
	}

	e.mu.Lock()
	e.v = &pl
	e.vIn = vs[0]
	e.exit = xs[len(xs)-1]
	e.mu.Unlock()

	log.WithFields(log.Fields{
		"stations":       len(xs),
		"exit_x":         xs[len(xs)-1],
		"inlet_velocity": vs[0],
	}).Info("动画层速度场已更新")
	return nil
}

// 推进一个时间步：平流、回收、生成
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.v == nil {
		return
	}
	e.pool.Traverse(func(_ int, p *model.Particle) {
		p.V = e.v.Predict(p.X)
		p.X += p.V * e.cfg.Dt
	})
	// 粒子不会相互超越，队尾始终是最下游的粒子
	for !e.pool.IsEmpty() && e.pool.Get(e.pool.Size()-1).X > e.exit {
		e.pool.RemoveLast()
	}
	if e.step%e.cfg.SpawnEvery == 0 && !e.pool.IsFull() {
		e.pool.AddFirst(model.Particle{X: 0, V: e.vIn})
	}
	e.step++
	e.t += e.cfg.Dt
}

// 当前存活的粒子数
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Size()
}

// 取一帧快照，粒子数超过上限时截取靠近入口的一段
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.pool.Size()
	if n > e.cfg.FrameParticles {
		n = e.cfg.FrameParticles
	}
	ps := make([]model.Particle, 0, n)
	e.pool.TraverseRange(0, n, func(_ int, p *model.Particle) {
		ps = append(ps, *p)
	})
	return Frame{Time: e.t, Particles: ps}
}

// 按帧间隔持续推进，stop 关闭后退出
func (e *Engine) Run(stop chan struct{}) {
	log.WithFields(log.Fields{
		"dt":              e.cfg.Dt,
		"steps_per_frame": e.cfg.StepsPerFrame,
		"frame_interval":  e.cfg.FrameInterval,
	}).Info("粒子平流开始")
LOOP:
	for {
		select {
		case <-stop:
			break LOOP
		default:
			for i := 0; i < e.cfg.StepsPerFrame; i++ {
				e.Step()
			}
			time.Sleep(e.cfg.FrameInterval)
		}
	}
	log.Info("粒子平流停止")
}
