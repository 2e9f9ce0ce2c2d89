package commands

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"rjet/solver"
)

func plotCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "按默认工况求解，把温度、马赫数与型面画成 PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := solveBestEffort(solver.DefaultGeometry(), solver.DefaultOperating(), solver.DefaultOptions())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			d := solver.BuildPushData(f)
			if err := plotSeries(filepath.Join(outDir, "temperature.png"), "Temperature profiles", "T (K)", d.X,
				series{"gas static", d.Temperature},
				series{"gas stagnation", d.StagTemp},
				series{"wall inner", d.WallInner},
				series{"wall outer", d.WallOuter},
				series{"coolant", d.CoolantTemp},
			); err != nil {
				return err
			}
			if err := plotSeries(filepath.Join(outDir, "mach.png"), "Mach number", "M", d.X,
				series{"mach", d.Mach},
			); err != nil {
				return err
			}
			if err := plotSeries(filepath.Join(outDir, "contour.png"), "Nozzle contour", "r (m)", d.X,
				series{"inner wall", d.Radius},
			); err != nil {
				return err
			}
			log.WithFields(log.Fields{"dir": outDir}).Info("剖面图已输出")
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "输出目录")
	return cmd
}

type series struct {
	name string
	ys   []float64
}

func plotSeries(path, title, ylabel string, x []float64, ss ...series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, 2*len(ss))
	for _, s := range ss {
		pts := make(plotter.XYs, len(x))
		for i := range x {
			pts[i].X = x[i]
			pts[i].Y = s.ys[i]
		}
		args = append(args, s.name, pts)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
