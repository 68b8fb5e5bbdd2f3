package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	var (
		fp   FloodParameters
		data = []byte(`
Title: Downtown flood
CFL: 0.4
FluxType: hll
InitType: dry
FinalTime: 600
FrameDt: 0.05
ManningN: 0.035
SourceEnabled: true
SourceFlowRate: 25
SourceRadiusCells: 3
TargetCellSize: 2
MinResolution: 32
MaxResolution: 512
RainRate: 1.e-6
Area:
  South: 43.64
  North: 43.66
  West: -79.40
  East: -79.37
`)
	)
	assert.NoError(t, fp.Parse(data))
	assert.Equal(t, "Downtown flood", fp.Title)
	assert.Equal(t, 0.4, fp.CFL)
	assert.Equal(t, "hll", fp.FluxType)
	assert.Equal(t, 600.0, fp.FinalTime)
	assert.Equal(t, 0.05, fp.FrameDt)
	assert.Equal(t, 0.035, fp.ManningN)
	assert.True(t, fp.SourceEnabled)
	assert.Equal(t, 25.0, fp.SourceFlowRate)
	assert.Equal(t, 3, fp.SourceRadiusCells)
	assert.Equal(t, 2, fp.TargetCellSize)
	assert.Equal(t, 32, fp.MinResolution)
	assert.Equal(t, 512, fp.MaxResolution)
	assert.Equal(t, 1.e-6, fp.RainRate)
	assert.Equal(t, 43.64, fp.Area["South"])
	assert.Equal(t, -79.37, fp.Area["East"])
	// Omitted fields keep their zero values for the caller to default
	assert.Equal(t, 0.0, fp.Gravity)
	assert.Equal(t, 0, fp.MaxSubsteps)

	bad := []byte("Title: [unclosed")
	assert.Error(t, fp.Parse(bad))
}
