package solver

import (
	"rjet/model"
	"rjet/nozzle"
)

// 再生冷却夹套的沿程扫掠。
// 逆流时冷却剂从喷管出口端 (x=L) 进入、在室头部 (x=0) 离开，
// 离开端温度即推进剂的室入口滞止温度；顺流时与推进剂同向。
// 每站温升 ΔT = Q/(ṁ·c_p)，压力按 Darcy-Weisbach 沿程递减
func (r *run) sweepCoolant() {
	mdot := r.op.CoolantMassFlow
	dh := r.noz.CoolantHydraulicDiameter()
	length := r.noz.TotalLength()
	n := len(r.xs)

	start, end, step := n-1, -1, -1
	if r.op.CoolantFlowDir == model.CoFlow {
		start, end, step = 0, n, 1
	}

	t := r.op.CoolantInletTemp
	p := r.op.CoolantPressure
	sum := 0.0
	for i := start; i != end; i += step {
		props, err := r.gas.Evaluate(t, p)
		if err != nil {
			r.flags[i] |= model.FlagPropertyRange
		}

		area := r.noz.CoolantAreaAt(r.xs[i])
		v := mdot / (props.Density * area)
		re := reynolds(props.Density, v, dh, props.Mu)
		pr := props.Cp * props.Mu / props.K

		r.tc[i] = t
		r.pc[i] = p
		r.reCool[i] = re
		r.hCool[i] = nusselt(re, pr, dh/length) * props.K / dh

		sum += r.q[i]
		r.absorbed[i] = sum

		t += r.q[i] / (mdot * props.Cp)
		f := frictionFactor(re, nozzle.CoolantRoughness/dh)
		p -= f * (r.w[i] / dh) * props.Density * v * v / 2
	}
}
