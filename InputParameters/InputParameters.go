package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FloodParameters struct {
	Title             string  `yaml:"Title"`
	CFL               float64 `yaml:"CFL"`
	FluxType          string  `yaml:"FluxType"`
	InitType          string  `yaml:"InitType"`
	FinalTime         float64 `yaml:"FinalTime"`
	FrameDt           float64 `yaml:"FrameDt"`
	Gravity           float64 `yaml:"Gravity"`
	ManningN          float64 `yaml:"ManningN"`
	InfiltrationRate  float64 `yaml:"InfiltrationRate"`
	DrainageRate      float64 `yaml:"DrainageRate"`
	RainRate          float64 `yaml:"RainRate"`
	WetThreshold      float64 `yaml:"WetThreshold"`
	SourceEnabled     bool    `yaml:"SourceEnabled"`
	SourceFlowRate    float64 `yaml:"SourceFlowRate"`
	SourceRadiusCells int     `yaml:"SourceRadiusCells"`
	TargetCellSize    int     `yaml:"TargetCellSize"`
	MinResolution     int     `yaml:"MinResolution"`
	MaxResolution     int     `yaml:"MaxResolution"`
	MinDt             float64 `yaml:"MinDt"`
	MaxDt             float64 `yaml:"MaxDt"`
	MaxSubsteps       int     `yaml:"MaxSubsteps"`
	LakeLevel         float64 `yaml:"LakeLevel"`
	DamDepth          float64 `yaml:"DamDepth"`
	DamFraction       float64 `yaml:"DamFraction"`
	// Geographic extent in decimal degrees, keys South/North/West/East.
	// Omitted when the terrain file already carries a georeference.
	Area map[string]float64 `yaml:"Area"`
}

func (fp *FloodParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FloodParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", fp.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", fp.FinalTime)
	fmt.Printf("%8.5f\t\t= FrameDt\n", fp.FrameDt)
	fmt.Printf("[%s]\t\t\t= Flux Type\n", fp.FluxType)
	fmt.Printf("[%s]\t= InitType\n", fp.InitType)
	fmt.Printf("%8.5f\t\t= Manning N\n", fp.ManningN)
	fmt.Printf("%8.3f\t\t= Source Flow Rate (m3/s)\n", fp.SourceFlowRate)
	keys := make([]string, len(fp.Area))
	i := 0
	for k := range fp.Area {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Area[%s] = %v\n", key, fp.Area[key])
	}
}
