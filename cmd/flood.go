/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/gosuri/uiprogress"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/theodorechapman/opendisaster-sub000/InputParameters"
	"github.com/theodorechapman/opendisaster-sub000/model_problems/SWE2D"
	"github.com/theodorechapman/opendisaster-sub000/readfiles"
	"github.com/theodorechapman/opendisaster-sub000/terrain"
)

type ModelFlood struct {
	DEMFile       string
	BuildingsFile string
	ICFile        string
	SourceX       float64
	SourceZ       float64
	HasSource     bool
	FinalTime     float64
	Profile       bool
	Verbose       bool
}

// FloodCmd represents the flood command
var FloodCmd = &cobra.Command{
	Use:   "flood",
	Short: "Shallow water flood solver, able to read terrain and building files",
	Long:  `Shallow water flood solver, able to read terrain and building files`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("flood called")
		mf := &ModelFlood{}
		if mf.DEMFile, err = cmd.Flags().GetString("demFile"); err != nil {
			panic(err)
		}
		if mf.BuildingsFile, err = cmd.Flags().GetString("buildingsFile"); err != nil {
			panic(err)
		}
		if mf.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mf.SourceX, _ = cmd.Flags().GetFloat64("sourceX")
		mf.SourceZ, _ = cmd.Flags().GetFloat64("sourceZ")
		mf.HasSource = cmd.Flags().Changed("sourceX") || cmd.Flags().Changed("sourceZ")
		mf.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		mf.Profile, _ = cmd.Flags().GetBool("profile")
		mf.Verbose, _ = cmd.Flags().GetBool("verbose")
		fp := processFloodInput(mf)
		RunFlood(mf, fp)
	},
}

func processFloodInput(mf *ModelFlood) (fp *InputParameters.FloodParameters) {
	var (
		err error
	)
	fp = &InputParameters.FloodParameters{}
	if len(mf.ICFile) == 0 {
		exampleFile := `
########################################
Title: "Urban Flood"
CFL: 0.45
FluxType: Rusanov # Can be "HLL"
InitType: dry # Can be "lake" or "dambreak"
FinalTime: 600.
FrameDt: 0.05
ManningN: 0.03
SourceEnabled: true
SourceFlowRate: 30.
SourceRadiusCells: 2
TargetCellSize: 2
########################################
`
		fmt.Printf("No input parameters file (-I), running with defaults. Example File:%s\n", exampleFile)
		return
	}
	var data []byte
	if data, err = ioutil.ReadFile(mf.ICFile); err != nil {
		panic(err)
	}
	if err = fp.Parse(data); err != nil {
		panic(err)
	}
	if mf.Verbose {
		fp.Print()
	}
	return
}

func init() {
	rootCmd.AddCommand(FloodCmd)
	FloodCmd.Flags().StringP("demFile", "D", "", "terrain elevation file in ESRI ASCII (.asc) format; a synthetic basin is used when absent")
	FloodCmd.Flags().StringP("buildingsFile", "B", "", "building footprints in GeoJSON format")
	FloodCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- SourceFlowRate")
	FloodCmd.Flags().Float64("sourceX", 0, "override the source easting in meters")
	FloodCmd.Flags().Float64("sourceZ", 0, "override the source northing in meters")
	FloodCmd.Flags().Float64P("finalTime", "t", 0, "target end time, overrides the input file")
	FloodCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
	FloodCmd.Flags().BoolP("verbose", "v", false, "print solver telemetry instead of the progress bar")
}

func RunFlood(mf *ModelFlood, fp *InputParameters.FloodParameters) {
	if mf.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	var (
		hf        *terrain.Heightfield
		buildings []geom.Polygon
		wb        *terrain.WorldBounds
	)
	if len(fp.Area) != 0 {
		gb := terrain.GeoBounds{
			South: fp.Area["South"], North: fp.Area["North"],
			West: fp.Area["West"], East: fp.Area["East"],
		}
		bounds, err := terrain.ProjectBounds(gb)
		if err != nil {
			panic(err)
		}
		wb = &bounds
	}
	if len(mf.DEMFile) != 0 {
		hf = readfiles.ReadESRIGrid(mf.DEMFile, mf.Verbose)
	} else {
		hf = basinHeightfield(wb)
	}
	if len(mf.BuildingsFile) != 0 {
		buildings = readfiles.ReadBuildingsGeoJSON(mf.BuildingsFile, wb, mf.Verbose)
	}
	bs := terrain.BuildSpec{
		TargetCellSize: fp.TargetCellSize,
		MinResolution:  fp.MinResolution,
		MaxResolution:  fp.MaxResolution,
		Verbose:        mf.Verbose,
	}
	if mf.HasSource {
		bs.SourceOverride = &geom.Point{X: mf.SourceX, Y: mf.SourceZ}
	}
	r := terrain.BuildRaster(hf, buildings, bs)
	s := SWE2D.NewSWE(r, solverParams(fp),
		SWE2D.NewInitType(fp.InitType), SWE2D.NewFluxType(fp.FluxType), mf.Verbose)
	applyCase(s, fp)
	var (
		finalTime = fp.FinalTime
		frameDt   = fp.FrameDt
	)
	if mf.FinalTime > 0 {
		finalTime = mf.FinalTime
	}
	if finalTime <= 0 {
		finalTime = 60
	}
	if frameDt <= 0 {
		frameDt = 0.05
	}
	if mf.Verbose {
		s.Solve(&SWE2D.RunMeta{FrameDt: frameDt, FinalTime: finalTime, Verbose: true})
		reportSource(s, wb)
		return
	}
	runWithProgress(s, wb, frameDt, finalTime)
}

// solverParams merges the input file over the solver defaults. Zero valued
// fields keep their defaults, except the rate terms where zero means off.
func solverParams(fp *InputParameters.FloodParameters) (sp SWE2D.SolverParams) {
	sp = SWE2D.DefaultSolverParams()
	if fp.CFL > 0 {
		sp.CFL = fp.CFL
	}
	if fp.Gravity > 0 {
		sp.Gravity = fp.Gravity
	}
	if fp.ManningN > 0 {
		sp.ManningN = fp.ManningN
	}
	if fp.WetThreshold > 0 {
		sp.WetThreshold = fp.WetThreshold
	}
	if fp.MinDt > 0 {
		sp.MinDt = fp.MinDt
	}
	if fp.MaxDt > 0 {
		sp.MaxDt = fp.MaxDt
	}
	if fp.MaxSubsteps > 0 {
		sp.MaxSubsteps = fp.MaxSubsteps
	}
	if fp.SourceFlowRate > 0 {
		sp.SourceFlowRate = fp.SourceFlowRate
	}
	if fp.SourceRadiusCells > 0 {
		sp.SourceRadiusCells = fp.SourceRadiusCells
	}
	sp.SourceEnabled = fp.SourceEnabled
	sp.InfiltrationRate = fp.InfiltrationRate
	sp.DrainageRate = fp.DrainageRate
	sp.RainRate = fp.RainRate
	return
}

func applyCase(s *SWE2D.SWE, fp *InputParameters.FloodParameters) {
	var dirty bool
	if fp.LakeLevel != 0 {
		s.LakeLevel = fp.LakeLevel
		dirty = true
	}
	if fp.DamDepth > 0 {
		s.DamDepth = fp.DamDepth
		dirty = true
	}
	if fp.DamFraction > 0 {
		s.DamFrac = fp.DamFraction
		dirty = true
	}
	if dirty {
		s.InitializeSolution()
	}
}

// basinHeightfield builds the fallback terrain used when no DEM is given: a
// shallow parabolic bowl, so injected water pools instead of running off.
func basinHeightfield(wb *terrain.WorldBounds) *terrain.Heightfield {
	var (
		nx, ny                 = 65, 65
		xMin, xMax, zMin, zMax = 0.0, 200.0, 0.0, 200.0
		rim                    = 4.0
	)
	if wb != nil {
		xMin, xMax, zMin, zMax = wb.XMin, wb.XMax, wb.ZMin, wb.ZMax
	}
	values := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		v := 2*float64(j)/float64(ny-1) - 1
		for i := 0; i < nx; i++ {
			u := 2*float64(i)/float64(nx-1) - 1
			values[j*nx+i] = 0.5 * rim * (u*u + v*v)
		}
	}
	return terrain.NewHeightfield(nx, ny, xMin, xMax, zMin, zMax, values)
}

func runWithProgress(s *SWE2D.SWE, wb *terrain.WorldBounds, frameDt, finalTime float64) {
	var (
		frames = int(math.Ceil(finalTime / frameDt))
		start  = time.Now()
	)
	uiprogress.Start()
	bar := uiprogress.AddBar(frames).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		st := s.Stats
		return fmt.Sprintf("t=%7.2fs wet=%6d max=%5.2fm", st.Time, st.WetCells, st.MaxDepth)
	})
	for n := 0; n < frames; n++ {
		s.Step(frameDt)
		bar.Incr()
	}
	uiprogress.Stop()
	var (
		elapsed = time.Since(start)
		st      = s.Stats
	)
	fmt.Printf("\nSimulated %8.2f seconds in %8.2f wall seconds\n", s.Time, elapsed.Seconds())
	fmt.Printf("Wet cells %d, max depth %5.2f m, volume %10.1f m3\n",
		st.WetCells, st.MaxDepth, st.TotalVolume)
	reportSource(s, wb)
}

// reportSource prints the state at the resolved source cell, with a lat/lon
// when the run is georeferenced.
func reportSource(s *SWE2D.SWE, wb *terrain.WorldBounds) {
	var (
		r    = s.Raster
		i, j = r.SourceIndex % r.Width, r.SourceIndex / r.Width
		x, z = r.CellCenter(i, j)
		smp  = s.SampleWorld(x, z, true, 4)
	)
	fmt.Printf("Source cell (%d,%d): depth %6.3f m, speed %6.3f m/s\n",
		i, j, smp.Depth, math.Hypot(smp.U, smp.V))
	if wb != nil {
		if lat, lon, err := wb.UnprojectPoint(x, z); err == nil {
			fmt.Printf("Source location: %9.5f N, %9.5f E\n", lat, lon)
		}
	}
}
