package solver

import (
	"math"
	"testing"

	"rjet/propellant"
)

func TestAreaRatioAtSonic(t *testing.T) {
	for _, gamma := range []float64{1.3, 1.4, 1.41} {
		if r := areaRatio(1, gamma); math.Abs(r-1) > 1e-12 {
			t.Errorf("gamma=%v: A/A* at M=1 is %v, want 1", gamma, r)
		}
	}
}

func TestMachFromAreaRatioRoundTrip(t *testing.T) {
	const gamma = 1.4
	for _, want := range []float64{0.05, 0.2, 0.5, 0.9} {
		ratio := areaRatio(want, gamma)
		got, ok := machFromAreaRatio(ratio, gamma, 0, false)
		if !ok {
			t.Fatalf("subsonic M=%v did not converge", want)
		}
		if math.Abs(got-want) > 1e-5 {
			t.Errorf("subsonic round trip: want %v got %v", want, got)
		}
	}
	for _, want := range []float64{1.2, 2, 3.5, 4.8} {
		ratio := areaRatio(want, gamma)
		got, ok := machFromAreaRatio(ratio, gamma, 0, true)
		if !ok {
			t.Fatalf("supersonic M=%v did not converge", want)
		}
		if math.Abs(got-want) > 1e-5 {
			t.Errorf("supersonic round trip: want %v got %v", want, got)
		}
	}
}

func TestMachFromAreaRatioSeeded(t *testing.T) {
	const gamma = 1.38
	ratio := areaRatio(2.5, gamma)
	plain, _ := machFromAreaRatio(ratio, gamma, 0, true)
	seeded, _ := machFromAreaRatio(ratio, gamma, 2.4, true)
	if math.Abs(plain-seeded) > 1e-4 {
		t.Errorf("seeded solution %v differs from unseeded %v", seeded, plain)
	}
	// 上一站在另一侧时同样成立
	seeded, _ = machFromAreaRatio(ratio, gamma, 2.6, true)
	if math.Abs(plain-seeded) > 1e-4 {
		t.Errorf("seeded from above: %v vs %v", seeded, plain)
	}
}

func TestMachFromAreaRatioUnityClamp(t *testing.T) {
	if m, ok := machFromAreaRatio(1, 1.4, 0, false); !ok || m != 1 {
		t.Errorf("ratio 1 should give sonic, got %v ok=%v", m, ok)
	}
	if m, ok := machFromAreaRatio(0.999, 1.4, 0, true); !ok || m != 1 {
		t.Errorf("ratio below 1 should clamp to sonic, got %v ok=%v", m, ok)
	}
}

func TestFlowFunctionMonotonic(t *testing.T) {
	const gamma = 1.4
	prev := 0.0
	for m := 0.05; m <= 1.0001; m += 0.05 {
		v := flowFunction(m, gamma)
		if v <= prev {
			t.Fatalf("flow function not increasing at M=%v: %v <= %v", m, v, prev)
		}
		prev = v
	}
}

func TestMachFromMassFlow(t *testing.T) {
	const (
		area  = 3.141592653589793e-4
		t0    = 300.0
		p0    = 5e5
		gamma = 1.4
	)
	m, choked, ok := machFromMassFlow(0.001, area, t0, p0, gamma)
	if !ok || choked {
		t.Fatalf("subsonic duct flow: ok=%v choked=%v", ok, choked)
	}
	if m <= 0 || m >= 1 {
		t.Fatalf("duct Mach %v outside (0,1)", m)
	}
	// 反推流量闭合
	f := flowFunction(m, gamma)
	back := f * area * p0 / math.Sqrt(propellant.GasConstant*t0/gamma)
	if math.Abs(back-0.001) > 1e-3*0.001+1e-6 {
		t.Errorf("mass flow round trip: %v", back)
	}

	// 流量拉到临界以上必须报壅塞
	_, choked, ok = machFromMassFlow(10, area, t0, p0, gamma)
	if !ok || !choked {
		t.Errorf("excessive flow: ok=%v choked=%v, want choked", ok, choked)
	}
}

func TestStaticState(t *testing.T) {
	const (
		t0    = 300.0
		p0    = 1e5
		gamma = 1.4
	)
	tt, p, v, rho := staticState(1, t0, p0, gamma)
	if math.Abs(tt-250) > 1e-9 {
		t.Errorf("static T at M=1: %v, want 250", tt)
	}
	wantP := p0 / math.Pow(1.2, gamma/(gamma-1))
	if math.Abs(p-wantP) > 1e-9 {
		t.Errorf("static p at M=1: %v, want %v", p, wantP)
	}
	a := math.Sqrt(gamma * propellant.GasConstant * tt)
	if math.Abs(v-a) > 1e-9 {
		t.Errorf("sonic speed mismatch: v=%v a=%v", v, a)
	}
	if math.Abs(rho-p/(propellant.GasConstant*tt)) > 1e-15 {
		t.Errorf("density inconsistent with ideal gas")
	}

	// M=0 回到滞止状态
	tt, p, v, _ = staticState(0, t0, p0, gamma)
	if tt != t0 || p != p0 || v != 0 {
		t.Errorf("M=0 should recover stagnation state: T=%v p=%v v=%v", tt, p, v)
	}
}
