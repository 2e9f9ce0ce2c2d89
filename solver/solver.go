package solver

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"rjet/model"
)

// 求解服务的接口定义

type Solver interface {
	// 取最新场的推送数组，尚无结果时返回 nil
	BuildData() *PushData

	// 获取 CalcHub
	GetCalcHub() *CalcHub

	// 最新求解结果
	Latest() *model.SolutionField

	// 设置几何与工况。每次设置都会发起一次新求解
	SetEnv(env model.Env)
	SetGeometry(g model.GeometryConfig)
	SetMassFlowRate(v float64)
	SetChamberPressure(v float64)
	SetHeaterPower(v float64)
	SetCoolantInletTemp(v float64)
	SetCoolantMassFlow(v float64)
	SetFlowDirection(d model.FlowDirection)

	// 运行求解循环，阻塞直到 StopSignal
	Run()
}

type stationSolver struct {
	mu     sync.Mutex
	geom   model.GeometryConfig
	op     model.OperatingPoint
	opts   Options
	latest *model.SolutionField

	calcHub *CalcHub
	e       *executor
}

func NewStationSolver(geom model.GeometryConfig, op model.OperatingPoint) *stationSolver {
	s := &stationSolver{
		geom:    geom,
		op:      op,
		opts:    DefaultOptions(),
		calcHub: NewCalcHub(),
	}
	s.e = newExecutor(s.onResult)
	return s
}

func (s *stationSolver) GetCalcHub() *CalcHub {
	return s.calcHub
}

func (s *stationSolver) Latest() *model.SolutionField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *stationSolver) BuildData() *PushData {
	f := s.Latest()
	if f == nil {
		return nil
	}
	return BuildPushData(f)
}

func (s *stationSolver) Run() {
	s.submit()
	s.e.run(s.calcHub.Stop)
}

func (s *stationSolver) submit() {
	s.mu.Lock()
	geom, op, opts := s.geom, s.op, s.opts
	s.mu.Unlock()
	s.e.submit(geom, op, opts)
}

func (s *stationSolver) onResult(t solveTask, f *model.SolutionField, err error, stale bool) {
	if err != nil {
		var conv *ConvergenceError
		if errors.As(err, &conv) {
			log.WithFields(log.Fields{
				"iterations": conv.Iterations,
				"residual":   conv.Residual,
			}).Warn("求解未收敛，保留最后一轮迭代结果")
		} else {
			log.WithFields(log.Fields{"err": err}).Error("求解失败")
			return
		}
	}
	if stale || f == nil {
		return
	}
	s.mu.Lock()
	s.latest = f
	s.mu.Unlock()
	s.calcHub.PushSignal()
}

func (s *stationSolver) SetEnv(env model.Env) {
	s.mu.Lock()
	s.geom = env.Geometry
	s.op = env.Operating
	s.mu.Unlock()
	log.WithFields(log.Fields{
		"geometry":  env.Geometry,
		"operating": env.Operating,
	}).Info("设置整套环境参数")
	s.submit()
}

func (s *stationSolver) SetGeometry(g model.GeometryConfig) {
	s.mu.Lock()
	s.geom = g
	s.mu.Unlock()
	log.WithFields(log.Fields{"geometry": g}).Info("设置几何参数")
	s.submit()
}

func (s *stationSolver) SetMassFlowRate(v float64) {
	s.mu.Lock()
	s.op.MassFlowRate = v
	s.mu.Unlock()
	log.WithFields(log.Fields{"mass_flow_rate": v}).Info("设置质量流量")
	s.submit()
}

func (s *stationSolver) SetChamberPressure(v float64) {
	s.mu.Lock()
	s.op.ChamberPressure = v
	s.mu.Unlock()
	log.WithFields(log.Fields{"chamber_pressure": v}).Info("设置室压")
	s.submit()
}

func (s *stationSolver) SetHeaterPower(v float64) {
	s.mu.Lock()
	s.op.HeaterPower = v
	s.mu.Unlock()
	log.WithFields(log.Fields{"heater_power": v}).Info("设置加热功率")
	s.submit()
}

func (s *stationSolver) SetCoolantInletTemp(v float64) {
	s.mu.Lock()
	s.op.CoolantInletTemp = v
	s.mu.Unlock()
	log.WithFields(log.Fields{"coolant_inlet_temp": v}).Info("设置冷却剂入口温度")
	s.submit()
}

func (s *stationSolver) SetCoolantMassFlow(v float64) {
	s.mu.Lock()
	s.op.CoolantMassFlow = v
	s.mu.Unlock()
	log.WithFields(log.Fields{"coolant_mass_flow": v}).Info("设置冷却剂流量")
	s.submit()
}

func (s *stationSolver) SetFlowDirection(d model.FlowDirection) {
	s.mu.Lock()
	s.op.CoolantFlowDir = d
	s.mu.Unlock()
	log.WithFields(log.Fields{"flow_dir": d}).Info("设置冷却剂流向")
	s.submit()
}
