package nozzle

import "gonum.org/v1/gonum/interp"

// Inconel 718 壁材物性，验证温区 300K ~ 1300K
// 密度近似取常数

const WallDensity = 8190.0 // kg/m^3

var (
	wallT  = []float64{300, 500, 700, 900, 1100, 1300}
	wallK  = []float64{11.4, 13.8, 16.2, 18.6, 21.0, 23.4}
	wallCp = []float64{435, 460, 485, 510, 535, 560}
)

type Inconel718 struct {
	k  interp.AkimaSpline
	cp interp.AkimaSpline
}

func NewInconel718() *Inconel718 {
	w := &Inconel718{}
	if err := w.k.Fit(wallT, wallK); err != nil {
		panic(err)
	}
	if err := w.cp.Fit(wallT, wallCp); err != nil {
		panic(err)
	}
	return w
}

// 导热系数，温区外取边界值
func (w *Inconel718) Conductivity(T float64) float64 {
	return w.k.Predict(clampWallT(T))
}

// 比热容，温区外取边界值
func (w *Inconel718) SpecificHeat(T float64) float64 {
	return w.cp.Predict(clampWallT(T))
}

func clampWallT(T float64) float64 {
	if T < wallT[0] {
		return wallT[0]
	}
	if T > wallT[len(wallT)-1] {
		return wallT[len(wallT)-1]
	}
	return T
}
