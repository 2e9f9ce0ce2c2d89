package solver

import (
	"fmt"

	"gopkg.in/ini.v1"

	"rjet/model"
)

var (
	solverCfg  Config
	defGeom    model.GeometryConfig
	defOperate model.OperatingPoint
)

type Config struct {
	Stations         int
	MaxIterations    int
	Tolerance        float64
	RelaxationFactor float64
	ProgressEvery    int
}

func init() {
	file, err := ini.Load("../conf/config.ini")
	if err != nil {
		file, err = ini.Load("conf/config.ini")
	}
	if err != nil {
		fmt.Println("配置文件读取错误，使用内置默认值: ", err)
		file = ini.Empty()
	}

	loadCfg(file)
}

func loadCfg(file *ini.File) {
	solverCfg = Config{
		Stations:         file.Section("solver").Key("stations").MustInt(40),
		MaxIterations:    file.Section("solver").Key("max_iterations").MustInt(2000),
		Tolerance:        file.Section("solver").Key("tolerance").MustFloat64(0.5),
		RelaxationFactor: file.Section("solver").Key("relaxation_factor").MustFloat64(0.05),
		ProgressEvery:    file.Section("solver").Key("progress_every").MustInt(200),
	}
	defGeom = model.GeometryConfig{
		ChamberLength:    file.Section("nozzle").Key("chamber_length").MustFloat64(0.05),
		ChamberRadius:    file.Section("nozzle").Key("chamber_radius").MustFloat64(0.01),
		ThroatRadius:     file.Section("nozzle").Key("throat_radius").MustFloat64(0.003),
		ExitRadius:       file.Section("nozzle").Key("exit_radius").MustFloat64(0.008),
		WallThickness:    file.Section("nozzle").Key("wall_thickness").MustFloat64(0.001),
		ConvergentLength: file.Section("nozzle").Key("convergent_length").MustFloat64(0),
		DivergentLength:  file.Section("nozzle").Key("divergent_length").MustFloat64(0),
		CoolantGap:       file.Section("nozzle").Key("coolant_gap").MustFloat64(0),
	}
	defOperate = model.OperatingPoint{
		MassFlowRate:     file.Section("operating").Key("mass_flow_rate").MustFloat64(0.001),
		ChamberPressure:  file.Section("operating").Key("chamber_pressure").MustFloat64(5e5),
		HeaterPower:      file.Section("operating").Key("heater_power").MustFloat64(500),
		CoolantInletTemp: file.Section("operating").Key("coolant_inlet_temp").MustFloat64(100),
		CoolantMassFlow:  file.Section("operating").Key("coolant_mass_flow").MustFloat64(0),
		CoolantPressure:  file.Section("operating").Key("coolant_pressure").MustFloat64(0),
	}
}

// 配置文件给出的默认几何，前端滑块的初始值
func DefaultGeometry() model.GeometryConfig {
	return defGeom
}

// 配置文件给出的默认工况
func DefaultOperating() model.OperatingPoint {
	return defOperate
}

// 一次求解的数值参数。零值字段取配置文件中的默认
type Options struct {
	Stations         int     // 轴向站数
	MaxIterations    int     // 外层定点迭代上限
	Tolerance        float64 // 壁温收敛容差 K
	RelaxationFactor float64 // 壁温松弛因子
}

func DefaultOptions() Options {
	return Options{
		Stations:         solverCfg.Stations,
		MaxIterations:    solverCfg.MaxIterations,
		Tolerance:        solverCfg.Tolerance,
		RelaxationFactor: solverCfg.RelaxationFactor,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Stations <= 0 {
		o.Stations = d.Stations
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.RelaxationFactor <= 0 {
		o.RelaxationFactor = d.RelaxationFactor
	}
	return o
}
