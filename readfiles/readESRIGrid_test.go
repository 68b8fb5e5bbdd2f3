package readfiles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadESRIGrid(t *testing.T) {
	{ // Header, extents, row order
		hf := parseESRI(bytes.NewReader(ascGrid), false)
		assert.Equal(t, 4, hf.NX)
		assert.Equal(t, 3, hf.NY)
		assert.Equal(t, 105.0, hf.XMin)
		assert.Equal(t, 135.0, hf.XMax)
		assert.Equal(t, 205.0, hf.ZMin)
		assert.Equal(t, 225.0, hf.ZMax)
		// File rows run north to south, heightfield rows south to north
		assert.Equal(t, 1.0, hf.At(0, 0))
		assert.Equal(t, 9.0, hf.At(0, 2))
		assert.Equal(t, 6.0, hf.At(3, 2))
		assert.InDelta(t, 3.5, hf.Bilinear(120, 215), 1.e-12)
	}
	{ // NODATA fills with the minimum valid elevation
		hf := parseESRI(bytes.NewReader(ascGrid), false)
		assert.Equal(t, 1.0, hf.At(1, 0))
	}
	{ // Center registered origin needs no half cell shift
		hf := parseESRI(bytes.NewReader(ascGridCentered), false)
		assert.Equal(t, 2, hf.NX)
		assert.Equal(t, 100.0, hf.XMin)
		assert.Equal(t, 110.0, hf.XMax)
		assert.Equal(t, 200.0, hf.ZMin)
		assert.Equal(t, 4.0, hf.At(0, 1))
	}
	{ // Truncated body
		assert.Panics(t, func() { parseESRI(bytes.NewReader(ascGridShort), false) })
	}
	{ // Unknown header field
		bad := []byte("rows 3\nncols 3\n")
		assert.Panics(t, func() { parseESRI(bytes.NewReader(bad), false) })
	}
	{ // Degenerate shape
		bad := []byte("ncols 1\nnrows 5\ncellsize 1\n1 2 3 4 5\n")
		assert.Panics(t, func() { parseESRI(bytes.NewReader(bad), false) })
	}
}

var ascGrid = []byte(`ncols 4
nrows 3
xllcorner 100.0
yllcorner 200.0
cellsize 10.0
NODATA_value -9999
9 8 7 6
5 4 3 2
1 -9999 2 3
`)

var ascGridCentered = []byte(`ncols 2
nrows 2
xllcenter 100.0
yllcenter 200.0
cellsize 10.0
4 3
1 2
`)

var ascGridShort = []byte(`ncols 3
nrows 2
xllcorner 0.0
yllcorner 0.0
cellsize 1.0
1 2 3 4
`)
