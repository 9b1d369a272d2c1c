// Command genex-cli builds and queries a similarity-grouping index over a
// CSV matrix of equal-length numeric time series, one row per series.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/ndaniels/genex"
)

var (
	flagDistance   string
	flagThreshold  float64
	flagThreads    int
	flagK          int
	flagH          int
	flagCpuProfile string
	flagMemProfile string
)

func init() {
	log.SetFlags(0)

	flag.StringVar(&flagDistance, "distance", "euclidean",
		"The distance kernel to group and query with (euclidean, manhattan, chebyshev, cosine, sorensen).")
	flag.Float64Var(&flagThreshold, "threshold", 1.0,
		"The similarity threshold passed to Group; smaller values produce more, tighter groups.")
	flag.IntVar(&flagThreads, "threads", 1,
		"The number of lengths to build concurrently.")
	flag.IntVar(&flagK, "k", 5,
		"The number of neighbors to return for k-sim.")
	flag.IntVar(&flagH, "h", 10,
		"The number of candidate groups, across all lengths, to examine during k-sim (raised to k if smaller).")

	flag.StringVar(&flagCpuProfile, "cpuprofile", "",
		"When set, a CPU profile will be written to the file specified.")
	flag.StringVar(&flagMemProfile, "memprofile", "",
		"When set, a memory profile will be written to the file specified.")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
	}

	if len(flagCpuProfile) > 0 {
		f, err := os.Create(flagCpuProfile)
		if err != nil {
			fatalf("%s\n", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cmd, datasetPath := flag.Arg(0), flag.Arg(1)

	rows, err := readCSVMatrix(datasetPath)
	if err != nil {
		fatalf("reading %s: %s\n", datasetPath, err)
	}
	ds, err := genex.NewDataset(rows)
	if err != nil {
		fatalf("building dataset: %s\n", err)
	}
	gs := genex.NewGlobalGroupSpace(ds)

	switch cmd {
	case "build":
		runBuild(gs, flag.Args()[2:])
	case "best-match":
		runBestMatch(gs, flag.Args()[2:])
	case "k-sim":
		runKSim(gs, flag.Args()[2:])
	case "inspect":
		runInspect(gs, flag.Args()[2:])
	default:
		usage()
	}

	if len(flagMemProfile) > 0 {
		f, err := os.Create(flagMemProfile)
		if err != nil {
			fatalf("%s\n", err)
		}
		defer f.Close()
		pprof.WriteHeapProfile(f)
	}
}

func runBuild(gs *genex.GlobalGroupSpace, args []string) {
	if len(args) < 1 {
		fatalf("usage: genex-cli build <dataset.csv> <snapshot-out>\n")
	}
	n, err := gs.GroupMultiThreaded(flagDistance, flagThreshold, flagThreads)
	if err != nil {
		fatalf("grouping: %s\n", err)
	}
	fmt.Printf("built %d groups across the dataset\n", n)

	out, err := os.Create(args[0])
	if err != nil {
		fatalf("creating snapshot %s: %s\n", args[0], err)
	}
	defer out.Close()
	if err := gs.Save(out); err != nil {
		fatalf("saving snapshot: %s\n", err)
	}
}

func runBestMatch(gs *genex.GlobalGroupSpace, args []string) {
	if len(args) < 2 {
		fatalf("usage: genex-cli best-match <dataset.csv> <snapshot-in> <query.csv>\n")
	}
	loadSnapshot(gs, args[0])

	query, err := readCSVRow(args[1])
	if err != nil {
		fatalf("reading query: %s\n", err)
	}
	cand, err := gs.BestMatch(query)
	if err != nil {
		fatalf("best-match: %s\n", err)
	}
	fmt.Printf("series=%d start=%d end=%d distance=%f\n", cand.Series, cand.Start, cand.End, cand.Distance)
}

func runKSim(gs *genex.GlobalGroupSpace, args []string) {
	if len(args) < 2 {
		fatalf("usage: genex-cli k-sim <dataset.csv> <snapshot-in> <query.csv>\n")
	}
	loadSnapshot(gs, args[0])

	query, err := readCSVRow(args[1])
	if err != nil {
		fatalf("reading query: %s\n", err)
	}
	results, err := gs.KSim(query, flagK, flagH)
	if err != nil {
		fatalf("k-sim: %s\n", err)
	}
	for _, cand := range results {
		fmt.Printf("series=%d start=%d end=%d distance=%f\n", cand.Series, cand.Start, cand.End, cand.Distance)
	}
}

func runInspect(gs *genex.GlobalGroupSpace, args []string) {
	if len(args) < 1 {
		fatalf("usage: genex-cli inspect <dataset.csv> <snapshot-in>\n")
	}
	loadSnapshot(gs, args[0])
	fmt.Printf("distance=%s grouped=%v\n", gs.DistanceName(), gs.IsGrouped())
	current, total := gs.Progress()
	fmt.Printf("progress=%d/%d\n", current, total)
}

func loadSnapshot(gs *genex.GlobalGroupSpace, path string) {
	f, err := os.Open(path)
	if err != nil {
		fatalf("opening snapshot %s: %s\n", path, err)
	}
	defer f.Close()
	if err := gs.Load(f); err != nil {
		fatalf("loading snapshot: %s\n", err)
	}
}

func readCSVMatrix(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i, j, err)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

func readCSVRow(path string) ([]float64, error) {
	rows, err := readCSVMatrix(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s contains no rows", path)
	}
	return rows[0], nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  genex-cli build <dataset.csv> <snapshot-out> [flags]")
	fmt.Fprintln(os.Stderr, "  genex-cli best-match <dataset.csv> <snapshot-in> <query.csv> [flags]")
	fmt.Fprintln(os.Stderr, "  genex-cli k-sim <dataset.csv> <snapshot-in> <query.csv> [flags]")
	fmt.Fprintln(os.Stderr, "  genex-cli inspect <dataset.csv> <snapshot-in> [flags]")
	flag.PrintDefaults()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
