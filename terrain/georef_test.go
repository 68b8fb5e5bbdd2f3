package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectBounds(t *testing.T) {
	gb := GeoBounds{South: 43.60, North: 43.70, West: -79.50, East: -79.30}
	wb, err := ProjectBounds(gb)
	assert.NoError(t, err)
	assert.Equal(t, 17, wb.ZoneNumber)
	assert.True(t, wb.Northern)
	// A 0.2 degree by 0.1 degree box near 43N spans roughly 16x11 km
	assert.True(t, wb.Width() > 10000 && wb.Width() < 25000)
	assert.True(t, wb.Depth() > 8000 && wb.Depth() < 15000)
}

func TestProjectPointRoundTrip(t *testing.T) {
	gb := GeoBounds{South: 43.60, North: 43.70, West: -79.50, East: -79.30}
	wb, err := ProjectBounds(gb)
	assert.NoError(t, err)
	x, z, err := wb.ProjectPoint(43.65, -79.40)
	assert.NoError(t, err)
	assert.True(t, x > wb.XMin && z > wb.ZMin)
	lat, lon, err := wb.UnprojectPoint(x, z)
	assert.NoError(t, err)
	assert.True(t, near(lat, 43.65, 1.e-5))
	assert.True(t, near(lon, -79.40, 1.e-5))
}

func TestProjectBoundsZoneSpan(t *testing.T) {
	// 6E is a UTM zone boundary (31/32)
	gb := GeoBounds{South: 50.0, North: 50.1, West: 5.9, East: 6.1}
	_, err := ProjectBounds(gb)
	assert.Error(t, err)
}

func TestProjectBoundsDegenerate(t *testing.T) {
	_, err := ProjectBounds(GeoBounds{South: 44, North: 43, West: -79.5, East: -79.3})
	assert.Error(t, err)
}
