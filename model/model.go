package model

// 共享数据模型：求解器的输入、逐站状态、输出场，以及前后端通信消息

// 冷却剂流向
type FlowDirection int

const (
	// 逆流：冷却剂从喷管出口端(x=L)流向室头部(x=0)，出口即推进剂入口
	CounterFlow FlowDirection = iota
	// 顺流：冷却剂与推进剂同向，从 x=0 流向 x=L
	CoFlow
)

// 室与喷管的几何配置，构造后不可变，单位均为米
type GeometryConfig struct {
	ChamberLength    float64 `json:"chamber_length"`
	ChamberRadius    float64 `json:"chamber_radius"`
	ThroatRadius     float64 `json:"throat_radius"`
	ExitRadius       float64 `json:"exit_radius"`
	WallThickness    float64 `json:"wall_thickness"`
	ConvergentLength float64 `json:"convergent_length"` // 0 表示取 0.4*ChamberLength
	DivergentLength  float64 `json:"divergent_length"`  // 0 表示取 0.6*ChamberLength
	CoolantGap       float64 `json:"coolant_gap"`       // 冷却夹套环隙，0 表示取 1e-3
}

// 一次求解的工况，每次求解不可变
type OperatingPoint struct {
	MassFlowRate     float64       `json:"mass_flow_rate"`     // kg/s
	ChamberPressure  float64       `json:"chamber_pressure"`   // Pa，滞止压力
	HeaterPower      float64       `json:"heater_power"`       // W
	CoolantInletTemp float64       `json:"coolant_inlet_temp"` // K
	CoolantMassFlow  float64       `json:"coolant_mass_flow"`  // kg/s
	CoolantPressure  float64       `json:"coolant_pressure"`   // Pa，0 表示取 ChamberPressure
	CoolantFlowDir   FlowDirection `json:"coolant_flow_dir"`
}

// 逐站气体状态
type FluidState struct {
	X           float64 `json:"x"`            // 轴向位置 m
	Area        float64 `json:"area"`         // 截面积 m^2
	Radius      float64 `json:"radius"`       // 内壁半径 m
	Mach        float64 `json:"mach"`
	StagTemp    float64 `json:"stag_temp"`    // 滞止温度 K
	Temperature float64 `json:"temperature"`  // 静温 K
	Pressure    float64 `json:"pressure"`     // 静压 Pa
	Velocity    float64 `json:"velocity"`     // m/s
	Density     float64 `json:"density"`      // kg/m^3
	Reynolds    float64 `json:"reynolds"`
	FilmCoeff   float64 `json:"film_coeff"`   // 气侧换热系数 W/(m^2 K)
}

// 逐站壁面状态
type WallState struct {
	InnerTemp float64 `json:"inner_temp"` // K
	OuterTemp float64 `json:"outer_temp"` // K
	HeatFlux  float64 `json:"heat_flux"`  // 内壁热流密度 W/m^2
	Power     float64 `json:"power"`      // 该站穿壁功率 W
}

// 逐站冷却剂状态
type CoolantState struct {
	Temperature float64 `json:"temperature"` // K
	Pressure    float64 `json:"pressure"`    // Pa
	Absorbed    float64 `json:"absorbed"`    // 沿程累计吸热 W
	Reynolds    float64 `json:"reynolds"`
	FilmCoeff   float64 `json:"film_coeff"`
}

// 单站诊断标志位
const (
	FlagMachNoConverge = 1 << iota // 面积比求根未收敛
	FlagPropertyRange              // 物性查询超出验证温区
	FlagChokedDuct                 // 等截面流道内质量流量已达临界
)

// 全场诊断信息
type Diagnostics struct {
	TimeConstant float64 `json:"time_constant"` // 壁面热惯性时间常数 s
	TimeTo90     float64 `json:"time_to_90"`    // 达到 90% 平衡的时间 s
	TimeTo99     float64 `json:"time_to_99"`
}

// 收敛后的输出场，调用方只读
type SolutionField struct {
	Geometry  GeometryConfig `json:"geometry"`
	Operating OperatingPoint `json:"operating"`

	Fluid   []FluidState   `json:"fluid"`
	Wall    []WallState    `json:"wall"`
	Coolant []CoolantState `json:"coolant"`
	Flags   []int          `json:"flags"`

	Converged  bool        `json:"converged"`
	Iterations int         `json:"iterations"`
	Residual   float64     `json:"residual"` // 最后一次外层扫掠的壁温最大变化 K
	Diag       Diagnostics `json:"diag"`
}

// 动画层的示踪粒子
type Particle struct {
	X float64 `json:"x"` // 轴向位置 m
	V float64 `json:"v"` // 当地速度 m/s
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 前端滑块折算后的整套环境参数
type Env struct {
	Geometry  GeometryConfig `json:"geometry"`
	Operating OperatingPoint `json:"operating"`
}

// 输出场的站数
func (f *SolutionField) Stations() int {
	return len(f.Fluid)
}

// 是否存在未消解的逐站标志
func (f *SolutionField) HasFlags() bool {
	for _, fl := range f.Flags {
		if fl != 0 {
			return true
		}
	}
	return false
}
