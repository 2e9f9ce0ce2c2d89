package solver

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"rjet/model"
	"rjet/nozzle"
)

func refGeometry() model.GeometryConfig {
	return model.GeometryConfig{
		ChamberLength: 0.05,
		ChamberRadius: 0.01,
		ThroatRadius:  0.003,
		ExitRadius:    0.008,
		WallThickness: 0.001,
	}
}

func refOperating() model.OperatingPoint {
	return model.OperatingPoint{
		MassFlowRate:     0.001,
		ChamberPressure:  5e5,
		HeaterPower:      500,
		CoolantInletTemp: 100,
	}
}

func throatIndex(f *model.SolutionField) int {
	idx := 0
	for i := range f.Fluid {
		if f.Fluid[i].Area < f.Fluid[idx].Area {
			idx = i
		}
	}
	return idx
}

func TestSolveConcreteScenario(t *testing.T) {
	f, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	if !f.Converged {
		t.Fatalf("not converged after %d iterations, residual %v", f.Iterations, f.Residual)
	}

	it := throatIndex(f)
	if math.Abs(f.Fluid[it].Mach-1) > 1e-3 {
		t.Errorf("throat Mach = %v, want 1±1e-3", f.Fluid[it].Mach)
	}
	exit := f.Fluid[f.Stations()-1]
	if exit.Mach <= 1 {
		t.Errorf("exit Mach = %v, want > 1", exit.Mach)
	}
	fmt.Println("iterations:", f.Iterations, "residual:", f.Residual,
		"exit Mach:", exit.Mach, "chamber T0:", f.Fluid[0].StagTemp)
}

func TestMachProfileShape(t *testing.T) {
	f, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	it := throatIndex(f)
	for i := 0; i < it; i++ {
		if f.Fluid[i].Mach >= 1 {
			t.Fatalf("station %d (x=%v) upstream of throat has Mach %v",
				i, f.Fluid[i].X, f.Fluid[i].Mach)
		}
	}
	for i := it; i < f.Stations()-1; i++ {
		if f.Fluid[i+1].Mach <= f.Fluid[i].Mach {
			t.Fatalf("Mach not strictly increasing in diverging section at %d: %v -> %v",
				i, f.Fluid[i].Mach, f.Fluid[i+1].Mach)
		}
	}
}

func TestEnergyBalance(t *testing.T) {
	for _, dir := range []model.FlowDirection{model.CounterFlow, model.CoFlow} {
		op := refOperating()
		op.CoolantFlowDir = dir
		f, err := Solve(refGeometry(), op)
		if err != nil {
			t.Fatal(err)
		}
		rejected, absorbed := EnergyAudit(f)
		if rejected == 0 {
			t.Fatalf("dir %v: no heat crossed the wall", dir)
		}
		if math.Abs(rejected-absorbed) > 1e-4*math.Abs(rejected) {
			t.Errorf("dir %v: wall rejected %v W, coolant absorbed %v W", dir, rejected, absorbed)
		}
	}
}

func TestSolveIdempotent(t *testing.T) {
	f1, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	f2, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Error("two solves of the same configuration differ")
	}
}

func TestHeaterPowerMonotonicity(t *testing.T) {
	op := refOperating()
	low, err := Solve(refGeometry(), op)
	if err != nil {
		t.Fatal(err)
	}
	op.HeaterPower = 800
	high, err := Solve(refGeometry(), op)
	if err != nil {
		t.Fatal(err)
	}

	// 室段末端即收敛段起点，网格保证其为站点
	chamberEnd := 0
	for i := range low.Fluid {
		if low.Fluid[i].X <= refGeometry().ChamberLength {
			chamberEnd = i
		}
	}
	if high.Fluid[chamberEnd].StagTemp <= low.Fluid[chamberEnd].StagTemp {
		t.Errorf("chamber stagnation temperature did not rise: %v vs %v",
			low.Fluid[chamberEnd].StagTemp, high.Fluid[chamberEnd].StagTemp)
	}
	// 气温升高 cp 增大、γ 略降，固定面积比下出口马赫数允许毫级回落
	n := low.Stations()
	if high.Fluid[n-1].Mach < low.Fluid[n-1].Mach-1e-2 {
		t.Errorf("exit Mach dropped with more heater power: %v vs %v",
			low.Fluid[n-1].Mach, high.Fluid[n-1].Mach)
	}
}

func TestStraightDuct(t *testing.T) {
	geom := refGeometry()
	geom.ThroatRadius = geom.ChamberRadius
	geom.ExitRadius = geom.ChamberRadius
	f, err := Solve(geom, refOperating())
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Fluid {
		m := f.Fluid[i].Mach
		if m <= 0 || m >= 1 {
			t.Fatalf("station %d: duct Mach %v outside (0,1)", i, m)
		}
		if f.Flags[i]&model.FlagChokedDuct != 0 {
			t.Fatalf("station %d flagged choked at this mass flow", i)
		}
	}
}

func TestSolveRejectsBadOperating(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.OperatingPoint)
	}{
		{"zero mass flow", func(op *model.OperatingPoint) { op.MassFlowRate = 0 }},
		{"zero pressure", func(op *model.OperatingPoint) { op.ChamberPressure = 0 }},
		{"negative heater", func(op *model.OperatingPoint) { op.HeaterPower = -1 }},
		{"zero coolant temp", func(op *model.OperatingPoint) { op.CoolantInletTemp = 0 }},
		{"negative coolant flow", func(op *model.OperatingPoint) { op.CoolantMassFlow = -1 }},
	}
	for _, tc := range cases {
		op := refOperating()
		tc.mutate(&op)
		f, err := Solve(refGeometry(), op)
		if err == nil || f != nil {
			t.Errorf("%s: expected rejection, got field %v err %v", tc.name, f != nil, err)
			continue
		}
		var opErr *InvalidOperatingError
		if !errors.As(err, &opErr) {
			t.Errorf("%s: got %T, want *InvalidOperatingError", tc.name, err)
		}
	}
}

func TestSolveRejectsBadGeometry(t *testing.T) {
	geom := refGeometry()
	geom.ThroatRadius = 0.02 // 比室还宽
	f, err := Solve(geom, refOperating())
	if err == nil || f != nil {
		t.Fatalf("expected geometry rejection, got field %v err %v", f != nil, err)
	}
	var geomErr *nozzle.InvalidGeometryError
	if !errors.As(err, &geomErr) {
		t.Errorf("got %T, want *InvalidGeometryError", err)
	}
}

func TestRegenClosure(t *testing.T) {
	f, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	// 逆流时推进剂入口滞止温度由夹套 x=0 端的冷却剂温度
	// 加上首站加热增量给出，两者不应相差悬殊
	dt := f.Fluid[0].StagTemp - f.Coolant[0].Temperature
	if math.Abs(dt) > 50 {
		t.Errorf("inlet stagnation temp %v far from coolant end temp %v",
			f.Fluid[0].StagTemp, f.Coolant[0].Temperature)
	}
}

func TestCoolantFlowDirections(t *testing.T) {
	counter, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	op := refOperating()
	op.CoolantFlowDir = model.CoFlow
	co, err := Solve(refGeometry(), op)
	if err != nil {
		t.Fatal(err)
	}
	// 顺流时 x=0 端就是夹套入口，站温即入口温度
	if got := co.Coolant[0].Temperature; got != op.CoolantInletTemp {
		t.Errorf("co-flow jacket head temp = %v, want %v", got, op.CoolantInletTemp)
	}
	// 逆流的冷却剂到达 x=0 端前已吸收整段热量
	if counter.Coolant[0].Temperature <= co.Coolant[0].Temperature {
		t.Errorf("counter-flow end temp %v not above co-flow %v",
			counter.Coolant[0].Temperature, co.Coolant[0].Temperature)
	}
}

func TestDiagnostics(t *testing.T) {
	f, err := Solve(refGeometry(), refOperating())
	if err != nil {
		t.Fatal(err)
	}
	d := f.Diag
	if d.TimeConstant <= 0 {
		t.Fatalf("time constant = %v", d.TimeConstant)
	}
	if d.TimeTo90 <= d.TimeConstant || d.TimeTo99 <= d.TimeTo90 {
		t.Errorf("equilibrium times out of order: tau=%v t90=%v t99=%v",
			d.TimeConstant, d.TimeTo90, d.TimeTo99)
	}

	op := refOperating()
	op.HeaterPower = 0
	cold, err := Solve(refGeometry(), op)
	if err != nil {
		t.Fatal(err)
	}
	if cold.Diag.TimeConstant != 0 {
		t.Errorf("cold flow should not report a heater time constant, got %v", cold.Diag.TimeConstant)
	}
}

func TestSolveOptionsStations(t *testing.T) {
	opts := DefaultOptions()
	opts.Stations = 80
	f, err := SolveWithOptions(refGeometry(), refOperating(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if f.Stations() < 80 {
		t.Errorf("stations = %d, want at least 80", f.Stations())
	}
}
