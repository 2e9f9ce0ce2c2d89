package solver

import "math"

// 对流换热关联式、摩擦系数与穿壁串联热阻网络

const (
	laminarLimit   = 2300.0 // 层流上限雷诺数
	turbulentLimit = 4000.0 // Blasius 与 Colebrook-White 的分界
)

func reynolds(rho, v, d, mu float64) float64 {
	return rho * v * d / mu
}

// 努塞尔数。层流取定壁温入口段关联式，湍流取 Dittus-Boelter
func nusselt(re, pr, dOverL float64) float64 {
	if re < laminarLimit {
		g := dOverL * re * pr
		return 3.66 + 0.0668*g/(1+0.04*math.Pow(g, 2.0/3.0))
	}
	return 0.023 * math.Pow(re, 0.8) * math.Pow(pr, 0.4)
}

// 达西摩擦系数。层流 64/Re，过渡区 Blasius，
// 湍流区以 Blasius 起步迭代 Colebrook-White
func frictionFactor(re, relRoughness float64) float64 {
	if re < 1 {
		re = 1
	}
	if re < laminarLimit {
		return 64 / re
	}
	f := 0.316 * math.Pow(re, -0.25)
	if re <= turbulentLimit {
		return f
	}
	for i := 0; i < 10; i++ {
		fNew := math.Pow(-2*math.Log10(relRoughness/3.7+2.51/(re*math.Sqrt(f))), -2)
		if math.Abs(fNew-f) < 1e-6 {
			return fNew
		}
		f = fNew
	}
	return f
}

// 圆筒壁导热的对数平均面积
func logMeanArea(ain, aout float64) float64 {
	if math.Abs(aout-ain) < 1e-12*ain {
		return ain
	}
	return (aout - ain) / math.Log(aout/ain)
}

// 单站穿壁串联热阻网络：气侧对流、壁面导热、冷却剂侧对流三段热流
// 在稳态下相等。返回站功率与满足热流连续的内外壁温
func wallNetwork(tg, tc, hg, hc, kw, thickness, ain, aout float64) (q, twi, two float64) {
	am := logMeanArea(ain, aout)
	r := 1/(hg*ain) + thickness/(kw*am) + 1/(hc*aout)
	q = (tg - tc) / r
	twi = tg - q/(hg*ain)
	two = tc + q/(hc*aout)
	return
}
