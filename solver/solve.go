package solver

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"rjet/model"
	"rjet/nozzle"
	"rjet/propellant"
)

// 外层定点迭代：气动扫掠、穿壁热网络、再生冷却三者交替推进，
// 直至全场壁温在两次扫掠间的最大变化降到容差以内

// 外层迭代未在上限内收敛。结果场仍随错误一并返回
type ConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("外层迭代 %d 次后壁温残差 %.3gK 未达容差", e.Iterations, e.Residual)
}

// 工况参数非物理，求解开始前即中止
type InvalidOperatingError struct {
	Reason string
}

func (e *InvalidOperatingError) Error() string {
	return "工况非法: " + e.Reason
}

// 一次求解的工作区，求解结束后即丢弃，不跨求解复用
type run struct {
	noz  *nozzle.Nozzle
	gas  *propellant.Hydrogen
	op   model.OperatingPoint
	opts Options

	xs     []float64 // 站位
	w      []float64 // 每站控制长度，相邻站中点间距
	area   []float64
	radius []float64
	throat int // 喉部站下标，无喉部时 -1

	// 气体侧
	t0    []float64
	mach  []float64
	tstat []float64
	pstat []float64
	vel   []float64
	rho   []float64
	reGas []float64
	hGas  []float64

	// 壁面
	twi    []float64
	two    []float64
	q      []float64 // 每站穿壁功率
	qflux  []float64
	deltas []float64 // 本次扫掠的壁温变化量

	// 冷却剂
	tc       []float64
	pc       []float64
	absorbed []float64
	reCool   []float64
	hCool    []float64

	heat  []float64 // 每站加热器注入功率
	flags []int
}

func validateOperating(op model.OperatingPoint) error {
	if op.MassFlowRate <= 0 {
		return &InvalidOperatingError{"质量流量必须为正"}
	}
	if op.ChamberPressure <= 0 {
		return &InvalidOperatingError{"室压必须为正"}
	}
	if op.HeaterPower < 0 {
		return &InvalidOperatingError{"加热功率不得为负"}
	}
	if op.CoolantInletTemp <= 0 {
		return &InvalidOperatingError{"冷却剂入口温度必须为正"}
	}
	if op.CoolantMassFlow < 0 {
		return &InvalidOperatingError{"冷却剂流量不得为负"}
	}
	if op.CoolantPressure < 0 {
		return &InvalidOperatingError{"冷却剂压力不得为负"}
	}
	return nil
}

// 再生冷却默认用推进剂本身：流量与压力缺省时直接取主路值
func normalizeOperating(op model.OperatingPoint) model.OperatingPoint {
	if op.CoolantMassFlow == 0 {
		op.CoolantMassFlow = op.MassFlowRate
	}
	if op.CoolantPressure == 0 {
		op.CoolantPressure = op.ChamberPressure
	}
	return op
}

func newRun(noz *nozzle.Nozzle, op model.OperatingPoint, opts Options) *run {
	xs := noz.Stations(opts.Stations)
	n := len(xs)

	r := &run{
		noz:    noz,
		gas:    propellant.NewHydrogen(),
		op:     op,
		opts:   opts,
		xs:     xs,
		w:      make([]float64, n),
		area:   make([]float64, n),
		radius: make([]float64, n),
		throat: -1,

		t0:    make([]float64, n),
		mach:  make([]float64, n),
		tstat: make([]float64, n),
		pstat: make([]float64, n),
		vel:   make([]float64, n),
		rho:   make([]float64, n),
		reGas: make([]float64, n),
		hGas:  make([]float64, n),

		twi:    make([]float64, n),
		two:    make([]float64, n),
		q:      make([]float64, n),
		qflux:  make([]float64, n),
		deltas: make([]float64, n),

		tc:       make([]float64, n),
		pc:       make([]float64, n),
		absorbed: make([]float64, n),
		reCool:   make([]float64, n),
		hCool:    make([]float64, n),

		heat:  make([]float64, n),
		flags: make([]int, n),
	}

	for i, x := range xs {
		r.radius[i] = noz.RadiusAt(x)
		r.area[i] = noz.AreaAt(x)
	}
	for i := range xs {
		switch i {
		case 0:
			r.w[i] = (xs[1] - xs[0]) / 2
		case n - 1:
			r.w[i] = (xs[n-1] - xs[n-2]) / 2
		default:
			r.w[i] = (xs[i+1] - xs[i-1]) / 2
		}
	}
	if noz.HasThroat() {
		for i, x := range xs {
			if x == noz.ThroatPosition() {
				r.throat = i
				break
			}
		}
	}

	// 加热器功率按控制长度分摊到全程
	for i := range xs {
		r.heat[i] = op.HeaterPower * r.w[i] / noz.TotalLength()
	}
	for i := range xs {
		r.t0[i] = op.CoolantInletTemp
		r.twi[i] = op.CoolantInletTemp
		r.two[i] = op.CoolantInletTemp
		r.tc[i] = op.CoolantInletTemp
		r.pc[i] = op.CoolantPressure
	}
	// 零热流扫掠一遍，给出冷却剂侧換热系数与压降的初值
	r.sweepCoolant()
	return r
}

// 气动扫掠。滞止温度沿程累加加热器注入并扣除穿壁损失，
// 室入口滞止温度取夹套 x=0 端的冷却剂温度（再生闭合）
func (r *run) sweepGas() {
	mdot := r.op.MassFlowRate
	p0 := r.op.ChamberPressure
	length := r.noz.TotalLength()
	athroat := r.noz.ThroatArea()
	hasThroat := r.noz.HasThroat()
	throatX := r.noz.ThroatPosition()

	t0 := r.tc[0]
	prevMach := 0.0
	for i := range r.xs {
		r.flags[i] = 0

		props, err := r.gas.Evaluate(t0, p0)
		if err != nil {
			r.flags[i] |= model.FlagPropertyRange
		}
		t0 += (r.heat[i] - r.q[i]) / (mdot * props.Cp)
		r.t0[i] = t0
		gamma := props.Gamma

		var m float64
		var ok bool
		if hasThroat {
			switch {
			case i == r.throat:
				m, ok = 1, true
			case r.xs[i] < throatX:
				seed := 0.0
				if i > 0 && prevMach < 1 {
					seed = prevMach
				}
				m, ok = machFromAreaRatio(r.area[i]/athroat, gamma, seed, false)
			default:
				seed := 0.0
				if prevMach > 1 {
					seed = prevMach
				}
				m, ok = machFromAreaRatio(r.area[i]/athroat, gamma, seed, true)
			}
		} else {
			var choked bool
			m, choked, ok = machFromMassFlow(mdot, r.area[i], t0, p0, gamma)
			if choked {
				r.flags[i] |= model.FlagChokedDuct
			}
		}
		if !ok {
			r.flags[i] |= model.FlagMachNoConverge
		}
		prevMach = m
		r.mach[i] = m

		t, p, v, rho := staticState(m, t0, p0, gamma)
		r.tstat[i] = t
		r.pstat[i] = p
		r.vel[i] = v
		r.rho[i] = rho

		// 气侧换热系数按当地静参数取物性
		film, err := r.gas.Evaluate(t, p)
		if err != nil {
			r.flags[i] |= model.FlagPropertyRange
		}
		d := 2 * r.radius[i]
		re := reynolds(rho, v, d, film.Mu)
		pr := film.Cp * film.Mu / film.K
		r.reGas[i] = re
		r.hGas[i] = nusselt(re, pr, d/length) * film.K / d
	}
}

// 逐站解穿壁热网络并以松弛因子更新壁温，返回最大壁温变化
func (r *run) updateWalls(relax float64) float64 {
	wall := r.noz.Wall()
	for i := range r.xs {
		thickness := r.noz.WallThicknessAt(r.xs[i])
		ain := 2 * math.Pi * r.radius[i] * r.w[i]
		aout := 2 * math.Pi * (r.radius[i] + thickness) * r.w[i]
		kw := wall.Conductivity(0.5 * (r.twi[i] + r.two[i]))

		q, twi, two := wallNetwork(r.tstat[i], r.tc[i], r.hGas[i], r.hCool[i], kw, thickness, ain, aout)
		di := relax * (twi - r.twi[i])
		do := relax * (two - r.two[i])
		r.twi[i] += di
		r.two[i] += do
		r.q[i] = q
		r.qflux[i] = q / ain
		r.deltas[i] = math.Max(math.Abs(di), math.Abs(do))
	}
	return floats.Max(r.deltas)
}

// 壁面一阶热惯性估计，给出达到平衡的特征时间
func (r *run) diagnostics() model.Diagnostics {
	if r.op.HeaterPower <= 0 {
		return model.Diagnostics{}
	}
	wall := r.noz.Wall()
	caps := make([]float64, len(r.xs))
	for i := range r.xs {
		ri := r.radius[i]
		ro := ri + r.noz.WallThicknessAt(r.xs[i])
		volume := math.Pi * (ro*ro - ri*ri) * r.w[i]
		caps[i] = nozzle.WallDensity * volume * wall.SpecificHeat(0.5*(r.twi[i]+r.two[i]))
	}
	tau := floats.Sum(caps) / (0.8 * r.op.HeaterPower)
	return model.Diagnostics{
		TimeConstant: tau,
		TimeTo90:     -tau * math.Log(0.1),
		TimeTo99:     -tau * math.Log(0.01),
	}
}

// Solve 对给定几何与工况执行一次完整稳态求解。
// 几何或工况非法时返回 nil 场；外层迭代未收敛时返回
// 最后一轮迭代的场和 *ConvergenceError，调用方自行取舍
func Solve(geom model.GeometryConfig, op model.OperatingPoint) (*model.SolutionField, error) {
	return SolveWithOptions(geom, op, DefaultOptions())
}

func SolveWithOptions(geom model.GeometryConfig, op model.OperatingPoint, opts Options) (*model.SolutionField, error) {
	if err := validateOperating(op); err != nil {
		return nil, err
	}
	noz, err := nozzle.New(geom)
	if err != nil {
		return nil, err
	}
	op = normalizeOperating(op)
	opts = opts.withDefaults()

	log.WithFields(log.Fields{
		"mass_flow_rate":     op.MassFlowRate,
		"chamber_pressure":   op.ChamberPressure,
		"heater_power":       op.HeaterPower,
		"coolant_inlet_temp": op.CoolantInletTemp,
		"stations":           opts.Stations,
	}).Info("开始求解")

	r := newRun(noz, op, opts)
	relax := opts.RelaxationFactor
	residual := math.Inf(1)
	converged := false
	iterations := 0
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		iterations = iter
		r.sweepGas()
		prev := residual
		residual = r.updateWalls(relax)
		r.sweepCoolant()

		if residual < opts.Tolerance {
			converged = true
			break
		}
		// 残差回升说明松弛过猛，收缩松弛因子再试
		if residual > prev {
			relax *= 0.95
		}
		if solverCfg.ProgressEvery > 0 && iter%solverCfg.ProgressEvery == 0 {
			log.WithFields(log.Fields{
				"iteration": iter,
				"residual":  residual,
				"relax":     relax,
			}).Debug("迭代进行中")
		}
	}

	f := r.export(converged, iterations, residual)
	log.WithFields(log.Fields{
		"converged":  converged,
		"iterations": iterations,
		"residual":   residual,
	}).Info("求解结束")

	if !converged {
		return f, &ConvergenceError{Iterations: iterations, Residual: residual}
	}
	return f, nil
}
