package solver

import "math"

// 推送数据的增量编码。序列按给定分辨率量化，首值全精度保留，
// 其余存相邻量化值之差。解码端逐项累加还原，单点误差不超过
// 半个分辨率，且不随站数漂移

type EncodedSeries struct {
	Base       float64 `json:"base"`
	Resolution float64 `json:"resolution"`
	Deltas     []int16 `json:"deltas"`
}

func encodeSeries(xs []float64, resolution float64) EncodedSeries {
	s := EncodedSeries{Resolution: resolution}
	if len(xs) == 0 {
		return s
	}
	s.Base = xs[0]
	s.Deltas = make([]int16, len(xs)-1)
	prev := int64(0)
	for i := 1; i < len(xs); i++ {
		q := int64(math.Round((xs[i] - s.Base) / resolution))
		d := q - prev
		// 单步超出 int16 的序列应选更粗的分辨率
		if d > math.MaxInt16 {
			d = math.MaxInt16
		}
		if d < math.MinInt16 {
			d = math.MinInt16
		}
		s.Deltas[i-1] = int16(d)
		prev += d
	}
	return s
}

// Decode 还原量化后的序列
func (s EncodedSeries) Decode() []float64 {
	out := make([]float64, len(s.Deltas)+1)
	out[0] = s.Base
	q := int64(0)
	for i, d := range s.Deltas {
		q += int64(d)
		out[i+1] = s.Base + float64(q)*s.Resolution
	}
	return out
}
