package nozzle

import (
	"math"

	log "github.com/sirupsen/logrus"

	"rjet/model"
)

// 室与喷管的几何模型 + 冷却夹套配置
// 轴向剖面分三段：等截面室段、线性收敛段、锥形扩张段
// 分段端点半径共用，段间连续性由构造保证

// 分段编号
const (
	SegChamber    = 0 // 等截面室段
	SegConverging = 1 // 收敛段
	SegDiverging  = 2 // 扩张段
)

// 表面粗糙度，米。冷却通道取 SLM 成形未处理表面的典型值
const (
	ChamberRoughness = 0.8e-6
	CoolantRoughness = 50e-6
)

// 收敛段、扩张段长度缺省时相对室长的比例
const (
	defaultConvergentFrac = 0.4
	defaultDivergentFrac  = 0.6
	defaultCoolantGap     = 1e-3
)

// 配置阶段的结构性错误，致命，计算开始前返回
type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return "几何配置非法: " + e.Reason
}

func invalid(reason string) error {
	return &InvalidGeometryError{Reason: reason}
}

type Nozzle struct {
	cfg model.GeometryConfig

	convergentLength float64
	divergentLength  float64
	coolantGap       float64
	totalLength      float64
	throatX          float64
	hasThroat        bool

	wall *Inconel718
}

func New(cfg model.GeometryConfig) (*Nozzle, error) {
	if cfg.ChamberLength <= 0 {
		return nil, invalid("室长必须为正")
	}
	if cfg.ChamberRadius <= 0 || cfg.ThroatRadius <= 0 || cfg.ExitRadius <= 0 {
		return nil, invalid("半径必须为正")
	}
	if cfg.WallThickness <= 0 {
		return nil, invalid("壁厚必须为正")
	}
	if cfg.ThroatRadius > cfg.ChamberRadius {
		return nil, invalid("喉部半径不得大于室半径")
	}
	if cfg.ThroatRadius > cfg.ExitRadius {
		return nil, invalid("喉部半径不得大于出口半径")
	}
	if cfg.ConvergentLength < 0 || cfg.DivergentLength < 0 || cfg.CoolantGap < 0 {
		return nil, invalid("段长与环隙不得为负")
	}

	n := &Nozzle{
		cfg:              cfg,
		convergentLength: cfg.ConvergentLength,
		divergentLength:  cfg.DivergentLength,
		coolantGap:       cfg.CoolantGap,
		wall:             NewInconel718(),
	}
	if n.convergentLength == 0 {
		n.convergentLength = defaultConvergentFrac * cfg.ChamberLength
	}
	if n.divergentLength == 0 {
		n.divergentLength = defaultDivergentFrac * cfg.ChamberLength
	}
	if n.coolantGap == 0 {
		n.coolantGap = defaultCoolantGap
	}
	n.totalLength = cfg.ChamberLength + n.convergentLength + n.divergentLength
	n.throatX = cfg.ChamberLength + n.convergentLength
	n.hasThroat = cfg.ThroatRadius < cfg.ChamberRadius && cfg.ThroatRadius < cfg.ExitRadius

	log.WithFields(log.Fields{
		"chamber_length": cfg.ChamberLength,
		"chamber_radius": cfg.ChamberRadius,
		"throat_radius":  cfg.ThroatRadius,
		"exit_radius":    cfg.ExitRadius,
		"wall_thickness": cfg.WallThickness,
		"total_length":   n.totalLength,
		"has_throat":     n.hasThroat,
	}).Info("构建几何模型")
	return n, nil
}

func (n *Nozzle) Config() model.GeometryConfig { return n.cfg }

func (n *Nozzle) TotalLength() float64 { return n.totalLength }

func (n *Nozzle) ThroatPosition() float64 { return n.throatX }

// 喉部面积是否为严格内点最小值。等截面流道没有喉部
func (n *Nozzle) HasThroat() bool { return n.hasThroat }

// 当地内壁半径，x 范围 [0, TotalLength]，越界取端点
func (n *Nozzle) RadiusAt(x float64) float64 {
	switch {
	case x <= n.cfg.ChamberLength:
		return n.cfg.ChamberRadius
	case x <= n.throatX:
		t := (x - n.cfg.ChamberLength) / n.convergentLength
		return n.cfg.ChamberRadius + t*(n.cfg.ThroatRadius-n.cfg.ChamberRadius)
	case x <= n.totalLength:
		t := (x - n.throatX) / n.divergentLength
		return n.cfg.ThroatRadius + t*(n.cfg.ExitRadius-n.cfg.ThroatRadius)
	default:
		return n.cfg.ExitRadius
	}
}

// 当地截面积
func (n *Nozzle) AreaAt(x float64) float64 {
	r := n.RadiusAt(x)
	return math.Pi * r * r
}

// 当地壁厚，目前为常厚度，保留逐站接口
func (n *Nozzle) WallThicknessAt(x float64) float64 {
	return n.cfg.WallThickness
}

func (n *Nozzle) ThroatArea() float64 {
	return math.Pi * n.cfg.ThroatRadius * n.cfg.ThroatRadius
}

func (n *Nozzle) ExitArea() float64 {
	return math.Pi * n.cfg.ExitRadius * n.cfg.ExitRadius
}

// 判断 x 落在哪一段
func (n *Nozzle) SegmentAt(x float64) int {
	switch {
	case x <= n.cfg.ChamberLength:
		return SegChamber
	case x <= n.throatX:
		return SegConverging
	default:
		return SegDiverging
	}
}

// 冷却环隙与水力直径
func (n *Nozzle) CoolantGap() float64 { return n.coolantGap }

func (n *Nozzle) CoolantHydraulicDiameter() float64 { return 2 * n.coolantGap }

// 冷却环隙流通面积，随当地外壁半径变化
func (n *Nozzle) CoolantAreaAt(x float64) float64 {
	ri := n.RadiusAt(x) + n.cfg.WallThickness
	ro := ri + n.coolantGap
	return math.Pi * (ro*ro - ri*ri)
}

func (n *Nozzle) Wall() *Inconel718 { return n.wall }

// 生成轴向站点。三段端点（含喉部）必为站点，段内均分，
// 各段站数按长度占比分配，两次调用结果逐位相同
func (n *Nozzle) Stations(count int) []float64 {
	if count < 4 {
		count = 4
	}
	bounds := []float64{0, n.cfg.ChamberLength, n.throatX, n.totalLength}
	xs := []float64{0}
	for s := 0; s < 3; s++ {
		segLen := bounds[s+1] - bounds[s]
		intervals := int(math.Round(float64(count) * segLen / n.totalLength))
		if intervals < 1 {
			intervals = 1
		}
		for i := 1; i < intervals; i++ {
			xs = append(xs, bounds[s]+segLen*float64(i)/float64(intervals))
		}
		// 段端点取精确值，喉部站必须与 ThroatPosition 逐位一致
		xs = append(xs, bounds[s+1])
	}
	return xs
}
