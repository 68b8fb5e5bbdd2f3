package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theodorechapman/opendisaster-sub000/terrain"
)

/*
	ReadESRIGrid loads an ESRI ASCII raster (.asc) into a heightfield. The
	header carries the grid shape and georeference, the body lists elevations
	row by row starting at the north edge. Heightfield rows run south to
	north, so the row order flips on read.

	Grid values are taken as node samples at the cell centers. NODATA cells
	are filled with the lowest valid elevation so the surface stays
	continuous; passability is the raster builder's concern, not the
	reader's.
*/
func ReadESRIGrid(filename string, verbose bool) (hf *terrain.Heightfield) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Reading ESRI ASCII grid named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", filename, err))
	}
	defer file.Close()
	hf = parseESRI(file, verbose)
	return
}

func parseESRI(reader io.Reader, verbose bool) (hf *terrain.Heightfield) {
	var (
		scanner      = bufio.NewScanner(reader)
		ncols, nrows int
		xll, yll     float64
		cellSize     float64
		xCentered    bool
		yCentered    bool
		noData       float64
		hasNoData    bool
		first        string
	)
	scanner.Split(bufio.ScanWords)
	for {
		tok := nextToken(scanner)
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			first = tok
			break
		}
		val := parseValue(nextToken(scanner))
		switch strings.ToLower(tok) {
		case "ncols":
			ncols = int(val)
		case "nrows":
			nrows = int(val)
		case "xllcorner":
			xll = val
		case "xllcenter":
			xll, xCentered = val, true
		case "yllcorner":
			yll = val
		case "yllcenter":
			yll, yCentered = val, true
		case "cellsize":
			cellSize = val
		case "nodata_value":
			noData, hasNoData = val, true
		default:
			panic(fmt.Errorf("unknown grid header field [%s]", tok))
		}
	}
	if ncols < 2 || nrows < 2 {
		panic(fmt.Errorf("grid too small: %d x %d, need at least 2 x 2", ncols, nrows))
	}
	if cellSize <= 0 {
		panic(fmt.Errorf("invalid cellsize %g", cellSize))
	}
	var (
		raw     = make([]float64, ncols*nrows)
		minElev = math.Inf(1)
		missing int
	)
	for n := range raw {
		tok := first
		if n > 0 {
			tok = nextToken(scanner)
		}
		v := parseValue(tok)
		if hasNoData && v == noData {
			v = math.Inf(-1)
			missing++
		} else if v < minElev {
			minElev = v
		}
		raw[n] = v
	}
	if missing == len(raw) {
		panic(fmt.Errorf("grid contains no valid elevations"))
	}
	// Flip to south-up and patch the missing cells
	values := make([]float64, ncols*nrows)
	for j := 0; j < nrows; j++ {
		srcRow := (nrows - 1 - j) * ncols
		for i := 0; i < ncols; i++ {
			v := raw[srcRow+i]
			if math.IsInf(v, -1) {
				v = minElev
			}
			values[j*ncols+i] = v
		}
	}
	var (
		xMin = xll
		zMin = yll
	)
	if !xCentered {
		xMin += 0.5 * cellSize
	}
	if !yCentered {
		zMin += 0.5 * cellSize
	}
	var (
		xMax = xMin + float64(ncols-1)*cellSize
		zMax = zMin + float64(nrows-1)*cellSize
	)
	if verbose {
		fmt.Printf("ncols = %d, nrows = %d, cellsize = %g m\n", ncols, nrows, cellSize)
		fmt.Printf("extent x [%g, %g], y [%g, %g]\n", xMin, xMax, zMin, zMax)
		if missing > 0 {
			fmt.Printf("%d NODATA cells filled with minimum elevation %g\n", missing, minElev)
		}
	}
	hf = terrain.NewHeightfield(ncols, nrows, xMin, xMax, zMin, zMax, values)
	return
}

func nextToken(scanner *bufio.Scanner) string {
	if !scanner.Scan() {
		panic(fmt.Errorf("unexpected end of grid file"))
	}
	return scanner.Text()
}

func parseValue(tok string) (val float64) {
	var err error
	if val, err = strconv.ParseFloat(tok, 64); err != nil {
		panic(fmt.Errorf("unable to parse grid value [%s]\n %s", tok, err))
	}
	return
}
