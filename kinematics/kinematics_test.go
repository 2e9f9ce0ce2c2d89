package kinematics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"rjet/model"
)

func testConfig() Config {
	return Config{
		Dt:             1e-4,
		StepsPerFrame:  4,
		FrameInterval:  time.Millisecond,
		Particles:      64,
		FrameParticles: 16,
		SpawnEvery:     1,
	}
}

// 加速的通道速度场，出口 0.1 m
func testField() *model.SolutionField {
	xs := []float64{0, 0.025, 0.05, 0.075, 0.1}
	vs := []float64{10, 15, 20, 30, 40}
	f := &model.SolutionField{}
	for i := range xs {
		f.Fluid = append(f.Fluid, model.FluidState{X: xs[i], Velocity: vs[i]})
	}
	return f
}

func TestEngineSpawnAndAdvance(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	e.Step()
	if e.Active() != 1 {
		t.Fatalf("active = %d, want 1", e.Active())
	}
	fr := e.Frame()
	if fr.Particles[0].X != 0 || fr.Particles[0].V != 10 {
		t.Fatalf("spawned particle = %+v, want X=0 V=10", fr.Particles[0])
	}

	e.Step()
	fr = e.Frame()
	if len(fr.Particles) != 2 {
		t.Fatalf("active = %d, want 2", len(fr.Particles))
	}
	// 头部是刚生成的粒子，尾部的粒子已前进一步
	if fr.Particles[0].X != 0 {
		t.Fatalf("head X = %v, want 0", fr.Particles[0].X)
	}
	if got := fr.Particles[1].X; math.Abs(got-10*1e-4) > 1e-12 {
		t.Fatalf("tail X = %v, want %v", got, 10*1e-4)
	}
	if math.Abs(fr.Time-2e-4) > 1e-12 {
		t.Fatalf("sim time = %v, want 2e-4", fr.Time)
	}
}

func TestParticleOrderMonotone(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		e.Step()
	}
	if e.Active() != 30 {
		t.Fatalf("active = %d, want 30", e.Active())
	}
	fr := e.Frame()
	for i := 1; i < len(fr.Particles); i++ {
		if fr.Particles[i].X <= fr.Particles[i-1].X {
			t.Fatalf("particles out of order at %d: %v then %v", i, fr.Particles[i-1].X, fr.Particles[i].X)
		}
	}
}

func TestParticleRetirement(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		e.Step()
	}
	at300 := e.Active()
	for i := 0; i < 100; i++ {
		e.Step()
	}
	at400 := e.Active()
	fmt.Println("steady particles:", at400)
	if at400 == 0 || at400 > 64 {
		t.Fatalf("active = %d, want in (0, 64]", at400)
	}
	// 入口生成量远大于存活量，说明出口在回收
	if at400 >= 400 {
		t.Fatalf("active = %d, no retirement happened", at400)
	}
	if diff := at400 - at300; diff < -2 || diff > 2 {
		t.Fatalf("population drifts: %d then %d", at300, at400)
	}
	e.pool.Traverse(func(i int, p *model.Particle) {
		if p.X < 0 || p.X > 0.1 {
			t.Fatalf("particle %d escaped domain: X = %v", i, p.X)
		}
	})
}

func TestFrameCapAndCopy(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		e.Step()
	}
	fr := e.Frame()
	if len(fr.Particles) != 16 {
		t.Fatalf("frame size = %d, want capped at 16", len(fr.Particles))
	}
	// 快照是拷贝，改动不回写
	fr.Particles[0].X = 99
	if again := e.Frame(); again.Particles[0].X == 99 {
		t.Fatal("frame aliases engine state")
	}
}

func TestSetFieldRejectsEmpty(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(nil); err == nil {
		t.Fatal("want error for nil field")
	}
	if err := e.SetField(&model.SolutionField{}); err == nil {
		t.Fatal("want error for field without stations")
	}
	// 没有速度场时推进是无操作
	e.Step()
	if e.Active() != 0 {
		t.Fatalf("active = %d, want 0", e.Active())
	}
}

func TestSetFieldShrinksDomain(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		e.Step()
	}
	short := &model.SolutionField{}
	for _, x := range []float64{0, 0.01, 0.02} {
		short.Fluid = append(short.Fluid, model.FluidState{X: x, Velocity: 10})
	}
	if err := e.SetField(short); err != nil {
		t.Fatal(err)
	}
	e.Step()
	e.pool.Traverse(func(i int, p *model.Particle) {
		if p.X > 0.02 {
			t.Fatalf("particle %d beyond new exit: X = %v", i, p.X)
		}
	})
}

func TestEngineRunStops(t *testing.T) {
	e := NewEngineWithConfig(testConfig())
	if err := e.SetField(testField()); err != nil {
		t.Fatal(err)
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.Run(stop)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after stop")
	}
	if e.Active() == 0 {
		t.Fatal("Run did not advance any particles")
	}
}
