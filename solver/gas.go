package solver

import (
	"math"

	"rjet/propellant"
)

// 等熵气动关系。面积比-马赫数反解与静参数换算

const (
	machTol     = 1e-6 // 面积比残差容限
	machMaxIter = 200
	machFloor   = 1e-8
)

// 等熵面积比 A/A*
func areaRatio(mach, gamma float64) float64 {
	f := (2 / (gamma + 1)) * (1 + (gamma-1)/2*mach*mach)
	return math.Pow(f, (gamma+1)/(2*(gamma-1))) / mach
}

// 按面积比在指定分支上二分反解马赫数。
// 亚声速支上面积比随 M 单调递减，超声速支单调递增。
// seed 给上一站的马赫数可收窄初始区间，不在本分支时传 0。
// 返回的 ok 为假表示迭代次数内未达残差容限
func machFromAreaRatio(ratio, gamma, seed float64, supersonic bool) (float64, bool) {
	if ratio <= 1 {
		// 喉部或数值上略小于 1 的面积比，取声速
		return 1, true
	}

	lo, hi := machFloor, 1.0
	if supersonic {
		lo, hi = 1.0, 50.0
		for areaRatio(hi, gamma) < ratio {
			hi *= 2
			if hi > 1e6 {
				return hi, false
			}
		}
	}
	// 用上一站的解收窄区间，分支单调性保证收窄后仍夹住根
	if seed > lo && seed < hi {
		if (areaRatio(seed, gamma) > ratio) != supersonic {
			lo = seed
		} else {
			hi = seed
		}
	}

	m := 0.5 * (lo + hi)
	for i := 0; i < machMaxIter; i++ {
		r := areaRatio(m, gamma)
		if math.Abs(r-ratio) < machTol {
			return m, true
		}
		if (r > ratio) != supersonic {
			lo = m
		} else {
			hi = m
		}
		if hi-lo < machFloor*machTol {
			// 区间已缩到浮点极限，残差受面积比斜率放大所致
			return m, true
		}
		m = 0.5 * (lo + hi)
	}
	return m, false
}

// 无量纲质量流量函数 ṁ·sqrt(R·T0/γ)/(A·p0)，在 [0,1] 上单调递增
func flowFunction(mach, gamma float64) float64 {
	f := 1 + (gamma-1)/2*mach*mach
	return mach * math.Pow(f, -(gamma+1)/(2*(gamma-1)))
}

// 等截面流道按质量流量反解亚声速马赫数。
// 流量达到临界时返回 M=1 并置 choked
func machFromMassFlow(mdot, area, t0, p0, gamma float64) (mach float64, choked, ok bool) {
	target := mdot * math.Sqrt(propellant.GasConstant*t0/gamma) / (area * p0)
	if target >= flowFunction(1, gamma) {
		return 1, true, true
	}

	lo, hi := 0.0, 1.0
	m := 0.5 * (lo + hi)
	for i := 0; i < machMaxIter; i++ {
		r := flowFunction(m, gamma)
		if math.Abs(r-target) < machTol {
			return m, false, true
		}
		if r < target {
			lo = m
		} else {
			hi = m
		}
		m = 0.5 * (lo + hi)
	}
	return m, false, false
}

// 由滞止状态与马赫数求静温、静压、速度、密度
func staticState(mach, t0, p0, gamma float64) (t, p, v, rho float64) {
	f := 1 + (gamma-1)/2*mach*mach
	t = t0 / f
	p = p0 / math.Pow(f, gamma/(gamma-1))
	v = mach * math.Sqrt(gamma*propellant.GasConstant*t)
	rho = p / (propellant.GasConstant * t)
	return
}
