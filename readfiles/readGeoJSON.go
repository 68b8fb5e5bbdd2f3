package readfiles

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/geom"

	"github.com/theodorechapman/opendisaster-sub000/terrain"
)

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Geometry *geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

/*
	ReadBuildingsGeoJSON loads building footprints from a GeoJSON
	FeatureCollection. Polygon and MultiPolygon geometries become footprint
	polygons with all their rings, so courtyards stay open ground; other
	geometry types are skipped.

	With bounds given, coordinates are treated as lon/lat and projected into
	the simulation plane; footprints falling outside the bounds' UTM zone are
	dropped. Without bounds the coordinates pass through as meters.
*/
func ReadBuildingsGeoJSON(filename string, wb *terrain.WorldBounds, verbose bool) (buildings []geom.Polygon) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Reading GeoJSON buildings named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", filename, err))
	}
	defer file.Close()
	buildings = parseBuildings(file, wb, verbose)
	return
}

func parseBuildings(reader io.Reader, wb *terrain.WorldBounds, verbose bool) (buildings []geom.Polygon) {
	var (
		col     geoJSONCollection
		skipped int
	)
	if err := json.NewDecoder(reader).Decode(&col); err != nil {
		panic(fmt.Errorf("unable to decode GeoJSON\n %s", err))
	}
	if col.Type != "FeatureCollection" {
		panic(fmt.Errorf("expected a FeatureCollection, got [%s]", col.Type))
	}
	for _, f := range col.Features {
		if f.Geometry == nil {
			skipped++
			continue
		}
		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				panic(fmt.Errorf("malformed Polygon coordinates\n %s", err))
			}
			if poly, ok := footprintPolygon(rings, wb); ok {
				buildings = append(buildings, poly)
			} else {
				skipped++
			}
		case "MultiPolygon":
			var parts [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &parts); err != nil {
				panic(fmt.Errorf("malformed MultiPolygon coordinates\n %s", err))
			}
			for _, rings := range parts {
				if poly, ok := footprintPolygon(rings, wb); ok {
					buildings = append(buildings, poly)
				} else {
					skipped++
				}
			}
		default:
			skipped++
		}
	}
	if verbose {
		fmt.Printf("Read %d building footprints, skipped %d features\n", len(buildings), skipped)
	}
	return
}

// footprintPolygon assembles one polygon from GeoJSON rings, projecting
// lon/lat vertices when bounds are present. A vertex outside the bounds'
// UTM zone rejects the whole footprint.
func footprintPolygon(rings [][][]float64, wb *terrain.WorldBounds) (poly geom.Polygon, ok bool) {
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		pts := make([]geom.Point, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				panic(fmt.Errorf("GeoJSON vertex with %d coordinates", len(c)))
			}
			x, z := c[0], c[1]
			if wb != nil {
				var err error
				if x, z, err = wb.ProjectPoint(c[1], c[0]); err != nil {
					return nil, false
				}
			}
			pts = append(pts, geom.Point{X: x, Y: z})
		}
		poly = append(poly, pts)
	}
	ok = len(poly) > 0
	return
}
