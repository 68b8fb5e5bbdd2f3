package terrain

import (
	"fmt"

	"github.com/im7mortal/UTM"
)

// GeoBounds is a geographic bounding box in decimal degrees.
type GeoBounds struct {
	South, North float64
	West, East   float64
}

// WorldBounds is the projected simulation extent in UTM meters, together
// with the zone the projection used so points can be mapped back.
type WorldBounds struct {
	XMin, XMax, ZMin, ZMax float64
	ZoneNumber             int
	ZoneLetter             string
	Northern               bool
}

func (wb WorldBounds) Width() float64 {
	return wb.XMax - wb.XMin
}

func (wb WorldBounds) Depth() float64 {
	return wb.ZMax - wb.ZMin
}

/*
	ProjectBounds maps a geographic box to UTM meters by projecting its
	southwest and northeast corners. Both corners must land in the same UTM
	zone; a box straddling a zone boundary cannot be represented by a single
	planar extent and is rejected.
*/
func ProjectBounds(gb GeoBounds) (wb WorldBounds, err error) {
	if gb.North <= gb.South || gb.East <= gb.West {
		err = fmt.Errorf("degenerate geographic bounds: S%g N%g W%g E%g",
			gb.South, gb.North, gb.West, gb.East)
		return
	}
	northern := gb.South >= 0
	swE, swN, swZone, swLetter, err := UTM.FromLatLon(gb.South, gb.West, northern)
	if err != nil {
		return
	}
	neE, neN, neZone, _, err := UTM.FromLatLon(gb.North, gb.East, northern)
	if err != nil {
		return
	}
	if swZone != neZone {
		err = fmt.Errorf("area spans UTM zones %d and %d", swZone, neZone)
		return
	}
	wb = WorldBounds{
		XMin:       swE,
		XMax:       neE,
		ZMin:       swN,
		ZMax:       neN,
		ZoneNumber: swZone,
		ZoneLetter: swLetter,
		Northern:   northern,
	}
	return
}

// ProjectPoint maps a lat/lon to meters within previously projected bounds.
func (wb WorldBounds) ProjectPoint(lat, lon float64) (x, z float64, err error) {
	x, z, zone, _, err := UTM.FromLatLon(lat, lon, wb.Northern)
	if err != nil {
		return
	}
	if zone != wb.ZoneNumber {
		err = fmt.Errorf("point (%g,%g) falls in UTM zone %d, bounds use %d",
			lat, lon, zone, wb.ZoneNumber)
	}
	return
}

// UnprojectPoint maps simulation meters back to lat/lon, used when emitting
// source-state reports against real-world geography.
func (wb WorldBounds) UnprojectPoint(x, z float64) (lat, lon float64, err error) {
	lat, lon, err = UTM.ToLatLon(x, z, wb.ZoneNumber, "", wb.Northern)
	return
}
