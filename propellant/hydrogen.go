package propellant

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// 氢气物性模型
// 表数据为 1MPa 参考态实验值，验证温区 300K ~ 4000K
// 温区外沿边界斜率线性外推，返回 OutOfRangeWarning 由调用方记入标志位

const (
	// 氢气气体常数 J/(kg·K)
	GasConstant = 4124.24

	TableMinT = 300.0
	TableMaxT = 4000.0
)

var (
	tableT  = []float64{300, 500, 1000, 1500, 2000, 2500, 3000, 3500, 4000}
	tableCp = []float64{14300, 14500, 15000, 15500, 16000, 16300, 16500, 16700, 16800}
	tableK  = []float64{0.18, 0.26, 0.42, 0.52, 0.60, 0.65, 0.72, 0.78, 0.84}
	tableMu = []float64{8.9e-6, 12.2e-6, 19.9e-6, 26.0e-6, 31.0e-6, 35.0e-6, 38.5e-6, 41.5e-6, 44.0e-6}

	// 1MPa 下的参考密度，仅用于密度公式的校验
	tableRho = []float64{0.8, 0.48, 0.24, 0.16, 0.12, 0.096, 0.08, 0.069, 0.06}
)

// 温度超出验证温区，非致命，调用方拿外推值继续算
type OutOfRangeWarning struct {
	T float64
}

func (w *OutOfRangeWarning) Error() string {
	return fmt.Sprintf("温度 %.1fK 超出验证温区 [%.0f, %.0f]K，已线性外推", w.T, TableMinT, TableMaxT)
}

// 单点物性
type Props struct {
	Density float64 // kg/m^3
	Cp      float64 // J/(kg·K)
	K       float64 // W/(m·K)
	Mu      float64 // Pa·s
	Gamma   float64
}

// 物性表，Akima 样条插值 + 边界线性外推
type table struct {
	min, max float64
	s        interp.AkimaSpline
}

func newTable(xs, ys []float64) *table {
	t := &table{min: xs[0], max: xs[len(xs)-1]}
	if err := t.s.Fit(xs, ys); err != nil {
		panic(err)
	}
	return t
}

// 返回插值结果以及是否发生了外推
func (t *table) at(x float64) (float64, bool) {
	if x < t.min {
		return t.s.Predict(t.min) + t.s.PredictDerivative(t.min)*(x-t.min), true
	}
	if x > t.max {
		return t.s.Predict(t.max) + t.s.PredictDerivative(t.max)*(x-t.max), true
	}
	return t.s.Predict(x), false
}

type Hydrogen struct {
	cp *table
	k  *table
	mu *table
}

func NewHydrogen() *Hydrogen {
	return &Hydrogen{
		cp: newTable(tableT, tableCp),
		k:  newTable(tableT, tableK),
		mu: newTable(tableT, tableMu),
	}
}

// 求 T、p 下的全部物性。密度按理想气体，其余查表
// 返回的 error 只可能是 *OutOfRangeWarning，物性值始终可用
func (h *Hydrogen) Evaluate(T, p float64) (Props, error) {
	cp, out1 := h.cp.at(T)
	k, out2 := h.k.at(T)
	mu, out3 := h.mu.at(T)
	props := Props{
		Density: p / (GasConstant * T),
		Cp:      cp,
		K:       k,
		Mu:      mu,
		Gamma:   cp / (cp - GasConstant),
	}
	if out1 || out2 || out3 {
		return props, &OutOfRangeWarning{T: T}
	}
	return props, nil
}

// 比热容比，面积比求根只需要它
func (h *Hydrogen) Gamma(T float64) float64 {
	cp, _ := h.cp.at(T)
	return cp / (cp - GasConstant)
}

// 比热容单独取用，冷却剂能量平衡用
func (h *Hydrogen) Cp(T float64) float64 {
	cp, _ := h.cp.at(T)
	return cp
}

// 普朗特数 cp·μ/k
func (h *Hydrogen) Prandtl(T float64) float64 {
	cp, _ := h.cp.at(T)
	k, _ := h.k.at(T)
	mu, _ := h.mu.at(T)
	return cp * mu / k
}
