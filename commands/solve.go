package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rjet/model"
	"rjet/solver"
)

func solveCmd() *cobra.Command {
	geom := solver.DefaultGeometry()
	op := solver.DefaultOperating()
	var (
		stations int
		coFlow   bool
		strict   bool
		out      string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "单次稳态求解，输出 JSON 结果场",
		RunE: func(cmd *cobra.Command, args []string) error {
			if coFlow {
				op.CoolantFlowDir = model.CoFlow
			}
			opts := solver.DefaultOptions()
			if stations > 0 {
				opts.Stations = stations
			}
			f, err := solveBestEffort(geom, op, opts)
			if err != nil {
				return err
			}
			if strict {
				if err := solver.Complete(f); err != nil {
					return err
				}
			}
			rejected, absorbed := solver.EnergyAudit(f)
			log.WithFields(log.Fields{
				"rejected": rejected,
				"absorbed": absorbed,
			}).Info("能量审计")

			data, err := json.MarshalIndent(f, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(data))
				return nil
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&geom.ChamberLength, "chamber-length", geom.ChamberLength, "室段总长 m")
	fl.Float64Var(&geom.ChamberRadius, "chamber-radius", geom.ChamberRadius, "室段半径 m")
	fl.Float64Var(&geom.ThroatRadius, "throat-radius", geom.ThroatRadius, "喉部半径 m")
	fl.Float64Var(&geom.ExitRadius, "exit-radius", geom.ExitRadius, "出口半径 m")
	fl.Float64Var(&geom.WallThickness, "wall", geom.WallThickness, "壁厚 m")
	fl.Float64Var(&op.MassFlowRate, "mass-flow", op.MassFlowRate, "推进剂质量流量 kg/s")
	fl.Float64Var(&op.ChamberPressure, "pressure", op.ChamberPressure, "室内滞止压力 Pa")
	fl.Float64Var(&op.HeaterPower, "power", op.HeaterPower, "加热功率 W")
	fl.Float64Var(&op.CoolantInletTemp, "coolant-temp", op.CoolantInletTemp, "冷却剂入口温度 K")
	fl.Float64Var(&op.CoolantMassFlow, "coolant-flow", op.CoolantMassFlow, "冷却剂质量流量 kg/s，0 表示再生冷却闭环")
	fl.BoolVar(&coFlow, "co-flow", false, "冷却剂与主流同向")
	fl.IntVar(&stations, "stations", 0, "轴向站数，0 取配置值")
	fl.BoolVar(&strict, "strict", false, "要求全场收敛且无站位标志，否则报错")
	fl.StringVar(&out, "out", "", "输出文件，缺省打印到标准输出")
	return cmd
}

// 未收敛时带警告返回最后一轮结果场，其余错误原样上抛
func solveBestEffort(geom model.GeometryConfig, op model.OperatingPoint, opts solver.Options) (*model.SolutionField, error) {
	f, err := solver.SolveWithOptions(geom, op, opts)
	if err != nil {
		var conv *solver.ConvergenceError
		if !errors.As(err, &conv) {
			return nil, err
		}
		log.WithFields(log.Fields{
			"iterations": conv.Iterations,
			"residual":   conv.Residual,
		}).Warn("求解未收敛，输出最后一轮结果")
	}
	return f, nil
}
