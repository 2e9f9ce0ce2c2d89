package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"rjet/model"
)

// 场导出。把收敛（或尽力而为）的逐站状态组装成调用方只读的
// SolutionField，本身不再做任何计算

func (r *run) export(converged bool, iterations int, residual float64) *model.SolutionField {
	n := len(r.xs)
	f := &model.SolutionField{
		Geometry:   r.noz.Config(),
		Operating:  r.op,
		Fluid:      make([]model.FluidState, n),
		Wall:       make([]model.WallState, n),
		Coolant:    make([]model.CoolantState, n),
		Flags:      make([]int, n),
		Converged:  converged,
		Iterations: iterations,
		Residual:   residual,
	}
	for i := 0; i < n; i++ {
		f.Fluid[i] = model.FluidState{
			X:           r.xs[i],
			Area:        r.area[i],
			Radius:      r.radius[i],
			Mach:        r.mach[i],
			StagTemp:    r.t0[i],
			Temperature: r.tstat[i],
			Pressure:    r.pstat[i],
			Velocity:    r.vel[i],
			Density:     r.rho[i],
			Reynolds:    r.reGas[i],
			FilmCoeff:   r.hGas[i],
		}
		f.Wall[i] = model.WallState{
			InnerTemp: r.twi[i],
			OuterTemp: r.two[i],
			HeatFlux:  r.qflux[i],
			Power:     r.q[i],
		}
		f.Coolant[i] = model.CoolantState{
			Temperature: r.tc[i],
			Pressure:    r.pc[i],
			Absorbed:    r.absorbed[i],
			Reynolds:    r.reCool[i],
			FilmCoeff:   r.hCool[i],
		}
		f.Flags[i] = r.flags[i]
	}
	f.Diag = r.diagnostics()
	return f
}

// 调用方要求完整场而当前场带有未消解的收敛问题
type IncompleteSolutionError struct {
	Converged bool
	Stations  []int
}

func (e *IncompleteSolutionError) Error() string {
	if !e.Converged {
		return fmt.Sprintf("外层迭代未收敛，%d 个站带求根标志", len(e.Stations))
	}
	return fmt.Sprintf("%d 个站的面积比求根未收敛", len(e.Stations))
}

// Complete 校验场中没有未消解的收敛标志。物性外推警告
// 不影响完整性。通过返回 nil，否则返回 *IncompleteSolutionError
func Complete(f *model.SolutionField) error {
	var bad []int
	for i, fl := range f.Flags {
		if fl&model.FlagMachNoConverge != 0 {
			bad = append(bad, i)
		}
	}
	if f.Converged && len(bad) == 0 {
		return nil
	}
	return &IncompleteSolutionError{Converged: f.Converged, Stations: bad}
}

// EnergyAudit 返回壁面总排热与冷却剂沿流路的总吸热。
// 两者在收敛场中应在数值误差内相等
func EnergyAudit(f *model.SolutionField) (rejected, absorbed float64) {
	powers := make([]float64, len(f.Wall))
	for i, w := range f.Wall {
		powers[i] = w.Power
	}
	rejected = floats.Sum(powers)
	if len(f.Coolant) == 0 {
		return
	}
	// 累计吸热取冷却剂流路出口端的值
	if f.Operating.CoolantFlowDir == model.CoFlow {
		absorbed = f.Coolant[len(f.Coolant)-1].Absorbed
	} else {
		absorbed = f.Coolant[0].Absorbed
	}
	return
}

// 推送给前端的逐站数组
type PushData struct {
	X           []float64 `json:"x"`
	Radius      []float64 `json:"radius"`
	Mach        []float64 `json:"mach"`
	Temperature []float64 `json:"temperature"`
	StagTemp    []float64 `json:"stag_temp"`
	Pressure    []float64 `json:"pressure"`
	Velocity    []float64 `json:"velocity"`
	WallInner   []float64 `json:"wall_inner"`
	WallOuter   []float64 `json:"wall_outer"`
	CoolantTemp []float64 `json:"coolant_temp"`

	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
}

func BuildPushData(f *model.SolutionField) *PushData {
	n := f.Stations()
	d := &PushData{
		X:           make([]float64, n),
		Radius:      make([]float64, n),
		Mach:        make([]float64, n),
		Temperature: make([]float64, n),
		StagTemp:    make([]float64, n),
		Pressure:    make([]float64, n),
		Velocity:    make([]float64, n),
		WallInner:   make([]float64, n),
		WallOuter:   make([]float64, n),
		CoolantTemp: make([]float64, n),
		Converged:   f.Converged,
		Iterations:  f.Iterations,
		Residual:    f.Residual,
	}
	for i := 0; i < n; i++ {
		d.X[i] = f.Fluid[i].X
		d.Radius[i] = f.Fluid[i].Radius
		d.Mach[i] = f.Fluid[i].Mach
		d.Temperature[i] = f.Fluid[i].Temperature
		d.StagTemp[i] = f.Fluid[i].StagTemp
		d.Pressure[i] = f.Fluid[i].Pressure
		d.Velocity[i] = f.Fluid[i].Velocity
		d.WallInner[i] = f.Wall[i].InnerTemp
		d.WallOuter[i] = f.Wall[i].OuterTemp
		d.CoolantTemp[i] = f.Coolant[i].Temperature
	}
	return d
}

// 紧凑推送：温度类数组按 1K 分辨率增量编码，其余原样
type CompactPushData struct {
	X           []float64     `json:"x"`
	Mach        []float64     `json:"mach"`
	Temperature EncodedSeries `json:"temperature"`
	StagTemp    EncodedSeries `json:"stag_temp"`
	WallInner   EncodedSeries `json:"wall_inner"`
	WallOuter   EncodedSeries `json:"wall_outer"`
	CoolantTemp EncodedSeries `json:"coolant_temp"`

	Converged bool `json:"converged"`
}

const tempResolution = 1.0 // K

func BuildCompactPushData(f *model.SolutionField) *CompactPushData {
	d := BuildPushData(f)
	return &CompactPushData{
		X:           d.X,
		Mach:        d.Mach,
		Temperature: encodeSeries(d.Temperature, tempResolution),
		StagTemp:    encodeSeries(d.StagTemp, tempResolution),
		WallInner:   encodeSeries(d.WallInner, tempResolution),
		WallOuter:   encodeSeries(d.WallOuter, tempResolution),
		CoolantTemp: encodeSeries(d.CoolantTemp, tempResolution),
		Converged:   f.Converged,
	}
}
