package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a grid refinement study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		rs := studies[key]
		fmt.Printf("Title = %s, Scheme = %s, CFL = %5.2f\n", rs.title, rs.scheme, rs.CFL)
		for i := range rs.numPTS {
			fmt.Printf("%d, %v, %v, %v, %v, %v, %v\n",
				rs.numPTS[i], rs.hRMS[i], rs.huRMS[i], rs.hvRMS[i], rs.hMAX[i], rs.huMAX[i], rs.hvMAX[i])
		}
		// Observed order between successive refinements, from the depth RMS
		for i := 1; i < len(rs.numPTS); i++ {
			p := observedOrder(rs.numPTS[i-1], rs.numPTS[i], rs.hRMS[i-1], rs.hRMS[i])
			fmt.Printf("observed order %d -> %d cells: %5.2f\n", rs.numPTS[i-1], rs.numPTS[i], p)
		}
	}
}

type RefinementStudy struct {
	title              string
	scheme             string
	numPTS             []int
	CFL                float64
	hRMS, huRMS, hvRMS []float64
	hMAX, huMAX, hvMAX []float64
}

func NewRefinementStudy(title, scheme string, CFL float64) *RefinementStudy {
	return &RefinementStudy{
		title:  title,
		scheme: scheme,
		CFL:    CFL,
	}
}

func (rs *RefinementStudy) Add(numPTS int, hRMS, huRMS, hvRMS, hMAX, huMAX, hvMAX float64) {
	rs.numPTS = append(rs.numPTS, numPTS)
	rs.hRMS = append(rs.hRMS, hRMS)
	rs.huRMS = append(rs.huRMS, huRMS)
	rs.hvRMS = append(rs.hvRMS, hvRMS)
	rs.hMAX = append(rs.hMAX, hMAX)
	rs.huMAX = append(rs.huMAX, huMAX)
	rs.hvMAX = append(rs.hvMAX, hvMAX)
}

// observedOrder fits the convergence exponent between two resolutions,
// assuming error ~ (1/n)^p.
func observedOrder(nCoarse, nFine int, eCoarse, eFine float64) (p float64) {
	if eFine <= 0 || eCoarse <= 0 || nFine <= nCoarse {
		return math.NaN()
	}
	p = math.Log(eCoarse/eFine) / math.Log(float64(nFine)/float64(nCoarse))
	return
}

func readCSV(csvFile string) (studies map[string]*RefinementStudy) {
	var (
		records                                [][]string
		err                                    error
		f                                      *os.File
		ok                                     bool
		rs                                     *RefinementStudy
		cfl                                    float64
		hRMS, huRMS, hvRMS, hMAX, huMAX, hvMAX float64
	)
	studies = make(map[string]*RefinementStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, nptstxt, scheme, cfltxt := rec[0], rec[1], rec[2], rec[3]
		npts, _ := strconv.Atoi(nptstxt)
		_, _ = fmt.Sscanf(cfltxt, "%f", &cfl)
		combTitle := title + scheme
		if rs, ok = studies[combTitle]; !ok {
			rs = NewRefinementStudy(title, scheme, cfl)
			studies[combTitle] = rs
		}
		_, _ = fmt.Sscanf(rec[4], "%f", &hRMS)
		_, _ = fmt.Sscanf(rec[5], "%f", &huRMS)
		_, _ = fmt.Sscanf(rec[6], "%f", &hvRMS)
		_, _ = fmt.Sscanf(rec[7], "%f", &hMAX)
		_, _ = fmt.Sscanf(rec[8], "%f", &huMAX)
		_, _ = fmt.Sscanf(rec[9], "%f", &hvMAX)
		rs.Add(npts, hRMS, huRMS, hvRMS, hMAX, huMAX, hvMAX)
	}
	return
}
